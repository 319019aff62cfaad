package db

import (
	"context"
	"fmt"

	"github.com/dattatraygorde/Order-Taking-System/model"
)

var demoCustomers = []model.Customer{
	{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Address: "123 Main St, City"},
	{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Address: "456 Market Rd, Town"},
}

var demoVegetables = []string{"Tomato", "Potato", "Onion", "Cucumber"}

// Seed inserts demo customers and vegetables into tables that are still empty.
func Seed(ctx context.Context, customers *CustomerStore, vegetables *VegetableStore) error {
	n, err := customers.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n == 0 {
		for _, c := range demoCustomers {
			if err := customers.Create(ctx, &c); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}

	n, err = vegetables.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n == 0 {
		for _, name := range demoVegetables {
			if err := vegetables.Create(ctx, &model.Vegetable{Name: name}); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}
	return nil
}
