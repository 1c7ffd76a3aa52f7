package fakers

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/models"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/shopspring/decimal"
)

var (
	companyPrefixes = []string{"Nusantara", "Pacific", "Summit", "Harbor", "Evergreen", "Ironwood", "Bluewave", "Northstar"}
	companySuffixes = []string{"Industries", "Trading Co", "Manufacturing", "Supply", "Components", "Materials"}
	countries       = []string{"Indonesia", "Vietnam", "Malaysia", "Germany", "Mexico", "India"}

	productAdjectives = []string{"Heavy-Duty", "Food-Grade", "Precision", "Stainless", "Industrial", "Eco", "Compact", "Reinforced"}
	productNouns      = []string{"Pallet Rack", "Conveyor Belt", "Ball Valve", "Packaging Film", "Hydraulic Pump", "Steel Coil", "Safety Glove", "LED Panel"}
	tagPool           = []string{"bulk", "oem", "iso-9001", "export", "custom", "fast-lead-time", "certified", "wholesale"}
)

func pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}

// SupplierFaker returns a plausible company profile.
func SupplierFaker(rng *rand.Rand) services.SupplierInput {
	name := pick(rng, companyPrefixes) + " " + pick(rng, companySuffixes)
	domain := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	return services.SupplierInput{
		CompanyName:  name,
		Description:  fmt.Sprintf("%s supplies industrial goods to buyers worldwide.", name),
		Website:      "https://" + domain + ".example.com",
		ContactEmail: "sales@" + domain + ".example.com",
		Country:      pick(rng, countries),
	}
}

// ProductFaker returns a product listing, optionally placed in one of the
// given categories.
func ProductFaker(rng *rand.Rand, categories []models.Category) services.ProductInput {
	title := pick(rng, productAdjectives) + " " + pick(rng, productNouns)
	tags := make([]string, 0, 3)
	for _, i := range rng.Perm(len(tagPool))[:3] {
		tags = append(tags, tagPool[i])
	}
	price := decimal.NewFromFloat(fakePrice(rng)).Round(2)

	in := services.ProductInput{
		Title:            title,
		ShortDescription: fmt.Sprintf("%s for B2B buyers, MOQ %d units.", title, (rng.Intn(20)+1)*10),
		Description:      fmt.Sprintf("The %s is built for continuous industrial use. Available in custom sizes with export packaging.", strings.ToLower(title)),
		Specifications:   fmt.Sprintf("Weight: %.1f kg\nWarranty: %d months", rng.Float64()*50+1, (rng.Intn(4)+1)*6),
		Tags:             tags,
		Price:            &price,
	}
	if len(categories) > 0 {
		category := categories[rng.Intn(len(categories))]
		in.CategoryID = &category.ID
		for _, sub := range category.SubCategories {
			if !sub.IsHeading {
				id := sub.ID
				in.SubCategoryID = &id
				break
			}
		}
	}
	return in
}

func fakePrice(rng *rand.Rand) float64 {
	return precision(rng.Float64()*math.Pow10(rng.Intn(5)+1)+1, rng.Intn(2)+1)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a

}
