package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product enums. All closed sets; validation rejects anything else.
var (
	ProductCategories = []string{
		"rings", "necklaces", "earrings", "bracelets", "bangles",
		"mangalsutra", "anklets", "nosepins", "pendants", "chains",
		"watches", "other",
	}
	ProductMaterials = []string{
		"gold", "silver", "platinum", "diamond", "pearl", "gemstone",
		"ruby", "titanium", "other",
	}
	ProductPurities = []string{"14k", "18k", "22k", "24k", "925", "950", "990", "999"}
	ProductGenders  = []string{"Men", "Women", "Unisex", "Kids"}
	ProductOccasions = []string{
		"Wedding", "Engagement", "Festive", "Party", "Daily Wear", "Gift", "Office",
	}
)

// PurityRequired reports whether the material demands a purity grade.
func PurityRequired(material string) bool {
	switch material {
	case "gold", "silver", "platinum":
		return true
	}
	return false
}

// Product is a catalogue entry.
type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Slug             string             `bson:"slug" json:"slug"`
	Description      string             `bson:"description" json:"description"`
	MRP              float64            `bson:"mrp" json:"mrp"`
	SellingPrice     float64            `bson:"sellingPrice" json:"sellingPrice"`
	Discount         float64            `bson:"discount" json:"discount"`
	Category         string             `bson:"category" json:"category"`
	SubCategory      string             `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Material         string             `bson:"material" json:"material"`
	Purity           string             `bson:"purity,omitempty" json:"purity,omitempty"`
	Weight           float64            `bson:"weight" json:"weight"`
	Stock            int                `bson:"stock" json:"stock"`
	RatingsAverage   float64            `bson:"ratingsAverage" json:"ratingsAverage"`
	RatingsQuantity  int                `bson:"ratingsQuantity" json:"ratingsQuantity"`
	Images           []string           `bson:"images" json:"images"`
	Featured         bool               `bson:"featured" json:"featured"`
	Gender           string             `bson:"gender" json:"gender"`
	Occasion         string             `bson:"occasion" json:"occasion"`
	WarrantyInMonths int                `bson:"warrantyInMonths,omitempty" json:"warrantyInMonths,omitempty"`
	IsReturnable     bool               `bson:"isReturnable" json:"isReturnable"`
	ReturnPolicyDays *int               `bson:"returnPolicyDays,omitempty" json:"returnPolicyDays,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"-"`
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return p.Stock >= qty
}
