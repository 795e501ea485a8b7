package catalog

import (
	"fmt"
	"strings"

	"DietAPI/internal/diet"
)

// Catalog is the read-only food and herb reference set. It is built once at
// start-up and shared by handle; nothing mutates it afterwards.
type Catalog struct {
	foods     []diet.Food
	foodIndex map[string]int
	herbs     []diet.Herb
	herbIndex map[string]int
}

// New validates every item and rejects the whole catalog on the first fault.
func New(foods []diet.Food, herbs []diet.Herb) (*Catalog, error) {
	c := &Catalog{
		foods:     make([]diet.Food, 0, len(foods)),
		foodIndex: make(map[string]int, len(foods)),
		herbs:     make([]diet.Herb, 0, len(herbs)),
		herbIndex: make(map[string]int, len(herbs)),
	}

	for _, f := range foods {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.foodIndex[f.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate food id %s", diet.ErrInvalidCatalogItem, f.ID)
		}
		f.BloodTypeCompatibility = f.BloodTypeCompatibility.Clone()
		c.foodIndex[f.ID] = len(c.foods)
		c.foods = append(c.foods, f)
	}

	for _, h := range herbs {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.herbIndex[h.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate herb id %s", diet.ErrInvalidCatalogItem, h.ID)
		}
		h.BloodTypeCompatibility = h.BloodTypeCompatibility.Clone()
		c.herbIndex[h.ID] = len(c.herbs)
		c.herbs = append(c.herbs, h)
	}

	return c, nil
}

// All returns the foods in load order. The slice is a copy.
func (c *Catalog) All() []diet.Food {
	return append([]diet.Food{}, c.foods...)
}

func (c *Catalog) FoodByID(id string) (diet.Food, bool) {
	i, ok := c.foodIndex[id]
	if !ok {
		return diet.Food{}, false
	}
	return c.foods[i], true
}

func (c *Catalog) ByCategory(category diet.FoodCategory) []diet.Food {
	result := []diet.Food{}
	for _, f := range c.foods {
		if f.Category == category {
			result = append(result, f)
		}
	}
	return result
}

// Search matches name and description case-insensitively. A blank query
// matches nothing.
func (c *Catalog) Search(query string) []diet.Food {
	q := strings.ToLower(strings.TrimSpace(query))
	result := []diet.Food{}
	if q == "" {
		return result
	}
	for _, f := range c.foods {
		if strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Description), q) {
			result = append(result, f)
		}
	}
	return result
}

// Categories lists the distinct categories present, in first-seen order.
func (c *Catalog) Categories() []diet.FoodCategory {
	seen := make(map[diet.FoodCategory]bool)
	result := []diet.FoodCategory{}
	for _, f := range c.foods {
		if !seen[f.Category] {
			seen[f.Category] = true
			result = append(result, f.Category)
		}
	}
	return result
}

func (c *Catalog) Compatibility(food diet.Food, bt diet.BloodType) (diet.Compatibility, error) {
	return food.BloodTypeCompatibility.Lookup(bt)
}

// FoodsFor returns the foods whose compatibility for bt equals compat.
func (c *Catalog) FoodsFor(bt diet.BloodType, compat diet.Compatibility) []diet.Food {
	result := []diet.Food{}
	for _, f := range c.foods {
		if v, err := f.BloodTypeCompatibility.Lookup(bt); err == nil && v == compat {
			result = append(result, f)
		}
	}
	return result
}

func (c *Catalog) Herbs() []diet.Herb {
	return append([]diet.Herb{}, c.herbs...)
}

func (c *Catalog) HerbByID(id string) (diet.Herb, bool) {
	i, ok := c.herbIndex[id]
	if !ok {
		return diet.Herb{}, false
	}
	return c.herbs[i], true
}

// SearchHerbs looks at name, scientific name, descriptions and healing
// properties. Same blank-query rule as Search.
func (c *Catalog) SearchHerbs(query string) []diet.Herb {
	q := strings.ToLower(strings.TrimSpace(query))
	result := []diet.Herb{}
	if q == "" {
		return result
	}
	for _, h := range c.herbs {
		if herbMatches(h, q) {
			result = append(result, h)
		}
	}
	return result
}

func herbMatches(h diet.Herb, q string) bool {
	fields := []string{h.Name, h.ScientificName, h.ShortDescription, h.DetailedDescription}
	fields = append(fields, h.HealingProperties...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// HerbsFor returns the herbs marked beneficial for bt.
func (c *Catalog) HerbsFor(bt diet.BloodType) []diet.Herb {
	result := []diet.Herb{}
	for _, h := range c.herbs {
		if v, err := h.BloodTypeCompatibility.Lookup(bt); err == nil && v == diet.Beneficial {
			result = append(result, h)
		}
	}
	return result
}

func (c *Catalog) FoodCount() int {
	return len(c.foods)
}

func (c *Catalog) HerbCount() int {
	return len(c.herbs)
}

/*
This project is the backend API for the OpenSourceDUTH diet planner app.
API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
