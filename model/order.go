package model

// Order pairs one customer with the vegetables ordered for a calendar day.
// An order owns its items; they are created and deleted together with it.
type Order struct {
	OrderDate Date `gorm:"type:varchar(10);not null;index"`

	Customer Customer    `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`

	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"not null;index"`
}

// TotalQuantity sums the quantities of every item on the order.
func (o Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += int64(item.Quantity)
	}
	return total
}

// OrderItem is one vegetable and quantity attached to an order.
type OrderItem struct {
	Vegetable Vegetable `gorm:"foreignKey:VegetableID"`

	ID          uint `gorm:"primaryKey"`
	OrderID     uint `gorm:"not null;index"`
	VegetableID uint `gorm:"not null;index"`
	Quantity    int  `gorm:"not null"`
}

// VegetableSummary is the total quantity ordered of one vegetable on a day.
type VegetableSummary struct {
	VegetableName string
	TotalQuantity int64
}
