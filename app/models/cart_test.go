package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/foodrun/app/models"
)

func TestCart_AddBumpsQuantity(t *testing.T) {
	cart := models.NewCart()
	cart.Add(1, "Burger", 10)
	cart.Add(1, "Burger", 10)

	items := cart.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCart_Description(t *testing.T) {
	cart := models.NewCart()
	cart.Add(1, "Burger", 10)
	cart.Add(2, "Fries", 3.5)
	cart.Add(2, "Fries", 3.5)

	assert.Equal(t, "1x Burger, 2x Fries", cart.Description())
}

func TestCart_TotalRoundsToCents(t *testing.T) {
	cart := models.NewCart()
	cart.Add(1, "Taco", 3.333)
	cart.SetQuantity(1, 3)

	assert.Equal(t, 10.00, cart.Total())
}

func TestCart_SingleItemScenario(t *testing.T) {
	cart := models.NewCart()
	cart.Add(1, "Burger", 10)

	assert.Equal(t, 10.0, cart.Total())
	assert.Equal(t, "1x Burger", cart.Description())
}

func TestCart_SetQuantityZeroRemoves(t *testing.T) {
	cart := models.NewCart()
	cart.Add(1, "Burger", 10)
	cart.SetQuantity(1, 0)

	assert.True(t, cart.Empty())
	assert.Empty(t, cart.Items())
}

func TestCart_RemoveKeepsOrder(t *testing.T) {
	cart := models.NewCart()
	cart.Add(1, "Burger", 10)
	cart.Add(2, "Fries", 3)
	cart.Add(3, "Shake", 5)
	cart.Remove(2)

	items := cart.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, "Shake", items[1].Name)
}

func TestCart_EmptyWhenNew(t *testing.T) {
	assert.True(t, models.NewCart().Empty())
}
