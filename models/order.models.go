package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentStatus is the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Order represents a placed order. References are stored as ids.
type Order struct {
	Base            `bson:",inline"`
	User            primitive.ObjectID   `bson:"user" json:"user"`
	ShippingAddress primitive.ObjectID   `bson:"shippingAddress" json:"shippingAddress"`
	Items           []primitive.ObjectID `bson:"items" json:"items"`
	TotalAmount     float64              `bson:"totalAmount" json:"totalAmount"`
	Status          OrderStatus          `bson:"status" json:"status"`
	PaymentStatus   PaymentStatus        `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod   string               `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	TrackingNumber  string               `bson:"trackingNumber" json:"trackingNumber"`
	Notes           string               `bson:"notes,omitempty" json:"notes,omitempty"`
}

// OrderItem is one line of an order. Price is the product price when the order was placed.
type OrderItem struct {
	Base     `bson:",inline"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Order    primitive.ObjectID `bson:"order" json:"order"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ShippingAddress is where an order is delivered; reused per (email, addressLine1)
type ShippingAddress struct {
	Base                 `bson:",inline"`
	FullName             string `bson:"fullName" json:"fullName"`
	AddressLine1         string `bson:"addressLine1" json:"addressLine1"`
	AddressLine2         string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City                 string `bson:"city" json:"city"`
	State                string `bson:"state" json:"state"`
	Country              string `bson:"country" json:"country"`
	PostalCode           string `bson:"postalCode" json:"postalCode"`
	PhoneNumber          string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Email                string `bson:"email" json:"email"`
	DeliveryInstructions string `bson:"deliveryInstructions,omitempty" json:"deliveryInstructions,omitempty"`
}

// OrderItemDetails is an order line with its product fetched
type OrderItemDetails struct {
	OrderItem `bson:",inline"`
	Product   *Product `json:"product"`
}

// OrderDetails is an order with its user, shipping address and items fetched
type OrderDetails struct {
	Order           `bson:",inline"`
	User            *User              `json:"user"`
	ShippingAddress *ShippingAddress   `json:"shippingAddress"`
	Items           []OrderItemDetails `json:"items"`
}

// OrderItemInput is one requested line. Price is accepted but never trusted.
type OrderItemInput struct {
	Product  string  `json:"product" validate:"required,mongodb"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// ShippingDetails is the delivery part of a checkout request
type ShippingDetails struct {
	FullName             string `json:"fullName" validate:"required"`
	PhoneNumber          string `json:"phoneNumber" validate:"omitempty,max=32"`
	Email                string `json:"email" validate:"required,email"`
	City                 string `json:"city" validate:"required"`
	Country              string `json:"country" validate:"required"`
	PostalCode           string `json:"postalCode" validate:"required"`
	AddressLine1         string `json:"addressLine1" validate:"required"`
	AddressLine2         string `json:"addressLine2"`
	State                string `json:"state" validate:"required"`
	DeliveryInstructions string `json:"deliveryInstructions"`
}

// CreateOrderInput is the body of a checkout. User is the purchasing user id, empty for guests.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingDetails  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod" validate:"omitempty,max=64"`
	Notes           string           `json:"notes" validate:"omitempty,max=1000"`
	User            string           `json:"user,omitempty" validate:"omitempty,mongodb"`
}

// UpdateOrderInput holds the fields an admin may change; nil fields are left untouched
type UpdateOrderInput struct {
	Status        *OrderStatus   `bson:"status,omitempty" json:"status" validate:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	PaymentStatus *PaymentStatus `bson:"paymentStatus,omitempty" json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	PaymentMethod *string        `bson:"paymentMethod,omitempty" json:"paymentMethod" validate:"omitempty,max=64"`
	Notes         *string        `bson:"notes,omitempty" json:"notes" validate:"omitempty,max=1000"`
}

// OrderQuery filters a paginated order listing
type OrderQuery struct {
	PageQuery
	User          primitive.ObjectID
	Status        OrderStatus
	PaymentStatus PaymentStatus
}
