package models

// Product represents an item in the catalog
type Product struct {
	Base        `bson:",inline"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Price       float64  `bson:"price" json:"price"`
	Quantity    int      `bson:"quantity" json:"quantity"`
	IsActive    bool     `bson:"isActive" json:"isActive"`
	ImageURL    string   `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Category    string   `bson:"category,omitempty" json:"category,omitempty"`
	Tags        []string `bson:"tags" json:"tags"`
}

// CreateProductInput is the body accepted when an admin adds a product
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	IsActive    *bool    `json:"isActive"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// UpdateProductInput holds the fields an admin may change; nil fields are left untouched
type UpdateProductInput struct {
	Name        *string   `bson:"name,omitempty" json:"name" validate:"omitempty,min=1"`
	Description *string   `bson:"description,omitempty" json:"description"`
	Price       *float64  `bson:"price,omitempty" json:"price" validate:"omitempty,gte=0"`
	Quantity    *int      `bson:"quantity,omitempty" json:"quantity" validate:"omitempty,gte=0"`
	IsActive    *bool     `bson:"isActive,omitempty" json:"isActive"`
	ImageURL    *string   `bson:"imageUrl,omitempty" json:"imageUrl"`
	Category    *string   `bson:"category,omitempty" json:"category"`
	Tags        *[]string `bson:"tags,omitempty" json:"tags"`
}

// ProductQuery filters a paginated catalog listing
type ProductQuery struct {
	PageQuery
	Category   string
	OnlyActive bool
}
