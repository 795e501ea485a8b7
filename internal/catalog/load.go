package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"DietAPI/internal/diet"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultData []byte

// File layout of a catalog data file.
type fileCatalog struct {
	Foods []fileFood `yaml:"foods"`
	Herbs []fileHerb `yaml:"herbs"`
}

type fileFood struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Category      string            `yaml:"category"`
	Description   string            `yaml:"description"`
	Nutrition     fileNutrition     `yaml:"nutrition"`
	Portion       filePortion       `yaml:"portion"`
	StoreSection  string            `yaml:"storeSection"`
	Compatibility map[string]string `yaml:"compatibility"`
}

type fileNutrition struct {
	Calories float64  `yaml:"calories"`
	Protein  float64  `yaml:"protein"`
	Carbs    float64  `yaml:"carbs"`
	Fats     float64  `yaml:"fats"`
	Fiber    *float64 `yaml:"fiber"`
}

type filePortion struct {
	DefaultSize      float64  `yaml:"defaultSize"`
	Unit             string   `yaml:"unit"`
	AlternativeUnits []string `yaml:"alternativeUnits"`
}

type fileHerb struct {
	ID                  string            `yaml:"id"`
	Name                string            `yaml:"name"`
	ScientificName      string            `yaml:"scientificName"`
	HealingProperties   []string          `yaml:"healingProperties"`
	Dosage              string            `yaml:"dosage"`
	Precautions         []string          `yaml:"precautions"`
	ShortDescription    string            `yaml:"shortDescription"`
	DetailedDescription string            `yaml:"detailedDescription"`
	Compatibility       map[string]string `yaml:"compatibility"`
}

// Default builds the catalog shipped inside the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultData))
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog. Compatibility maps may use the legacy ABO keys;
// they are expanded here so the rest of the code only sees canonical blood types.
func Load(r io.Reader) (*Catalog, error) {
	var raw fileCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	foods := make([]diet.Food, 0, len(raw.Foods))
	for _, rf := range raw.Foods {
		compat, err := normalizeCompatibility(rf.Compatibility)
		if err != nil {
			return nil, fmt.Errorf("food %s: %w", rf.ID, err)
		}
		foods = append(foods, diet.Food{
			ID:          rf.ID,
			Name:        rf.Name,
			Category:    diet.FoodCategory(rf.Category),
			Description: rf.Description,
			NutritionalInfo: diet.NutritionalInfo{
				Calories: rf.Nutrition.Calories,
				Protein:  rf.Nutrition.Protein,
				Carbs:    rf.Nutrition.Carbs,
				Fats:     rf.Nutrition.Fats,
				Fiber:    rf.Nutrition.Fiber,
			},
			PortionInfo: diet.PortionInfo{
				DefaultSize:      rf.Portion.DefaultSize,
				Unit:             rf.Portion.Unit,
				AlternativeUnits: rf.Portion.AlternativeUnits,
			},
			StoreSection:           diet.StoreSection(rf.StoreSection),
			BloodTypeCompatibility: compat,
		})
	}

	herbs := make([]diet.Herb, 0, len(raw.Herbs))
	for _, rh := range raw.Herbs {
		compat, err := normalizeCompatibility(rh.Compatibility)
		if err != nil {
			return nil, fmt.Errorf("herb %s: %w", rh.ID, err)
		}
		herbs = append(herbs, diet.Herb{
			ID:                     rh.ID,
			Name:                   rh.Name,
			ScientificName:         rh.ScientificName,
			HealingProperties:      rh.HealingProperties,
			BloodTypeCompatibility: compat,
			DosageInfo:             rh.Dosage,
			Precautions:            rh.Precautions,
			ShortDescription:       rh.ShortDescription,
			DetailedDescription:    rh.DetailedDescription,
		})
	}

	return New(foods, herbs)
}

// normalizeCompatibility applies legacy group keys first so that an explicit
// canonical key always wins over its group.
func normalizeCompatibility(raw map[string]string) (diet.CompatibilityMap, error) {
	out := diet.CompatibilityMap{}
	var canonical [][2]string
	for key, value := range raw {
		if diet.BloodType(key).Valid() {
			canonical = append(canonical, [2]string{key, value})
			continue
		}
		targets, err := diet.ExpandLegacyKey(key)
		if err != nil {
			return nil, err
		}
		c, err := diet.ParseCompatibility(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", diet.ErrInvalidCatalogItem, err)
		}
		for _, bt := range targets {
			out[bt] = c
		}
	}
	for _, kv := range canonical {
		c, err := diet.ParseCompatibility(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", diet.ErrInvalidCatalogItem, err)
		}
		out[diet.BloodType(kv[0])] = c
	}
	return out, nil
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
