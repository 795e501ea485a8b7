package catalog

import (
	"net/http"

	"DietAPI/internal/common"
	"DietAPI/internal/diet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// FoodView is a food as listed to clients, optionally annotated with its
// compatibility for the blood type the client asked about.
type FoodView struct {
	diet.Food
	Compatibility diet.Compatibility `json:"compatibility,omitempty"`
}

type CompatibilityResponse struct {
	FoodID        string             `json:"foodId"`
	BloodType     diet.BloodType     `json:"bloodType"`
	Compatibility diet.Compatibility `json:"compatibility"`
}

func (h *Handler) ListFoods(c *gin.Context) {
	var foods []diet.Food
	if q, ok := c.GetQuery("q"); ok {
		foods = h.catalog.Search(q)
	} else if cat := c.Query("category"); cat != "" {
		category := diet.FoodCategory(cat)
		if !category.Valid() {
			common.Fail(c, http.StatusBadRequest, "unknown category: "+cat)
			return
		}
		foods = h.catalog.ByCategory(category)
	} else {
		foods = h.catalog.All()
	}

	bloodParam := c.Query("bloodType")
	if bloodParam == "" {
		views := make([]FoodView, 0, len(foods))
		for _, f := range foods {
			views = append(views, FoodView{Food: f})
		}
		common.OK(c, http.StatusOK, gin.H{"foods": views})
		return
	}

	bt, err := diet.ParseBloodType(bloodParam)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var want diet.Compatibility
	if p := c.Query("compatibility"); p != "" {
		if want, err = diet.ParseCompatibility(p); err != nil {
			common.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	views := make([]FoodView, 0, len(foods))
	for _, f := range foods {
		compat, err := h.catalog.Compatibility(f, bt)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		if want != "" && compat != want {
			continue
		}
		views = append(views, FoodView{Food: f, Compatibility: compat})
	}
	common.OK(c, http.StatusOK, gin.H{"foods": views, "bloodType": bt})
}

func (h *Handler) ListCategories(c *gin.Context) {
	common.OK(c, http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

func (h *Handler) GetFood(c *gin.Context) {
	food, ok := h.catalog.FoodByID(c.Param("id"))
	if !ok {
		common.Fail(c, http.StatusNotFound, "food not found")
		return
	}
	common.OK(c, http.StatusOK, food)
}

func (h *Handler) GetCompatibility(c *gin.Context) {
	food, ok := h.catalog.FoodByID(c.Param("id"))
	if !ok {
		common.Fail(c, http.StatusNotFound, "food not found")
		return
	}
	bt, err := diet.ParseBloodType(c.Param("bloodType"))
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	compat, err := h.catalog.Compatibility(food, bt)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	common.OK(c, http.StatusOK, CompatibilityResponse{
		FoodID:        food.ID,
		BloodType:     bt,
		Compatibility: compat,
	})
}

func (h *Handler) ListHerbs(c *gin.Context) {
	if q, ok := c.GetQuery("q"); ok {
		common.OK(c, http.StatusOK, gin.H{"herbs": h.catalog.SearchHerbs(q)})
		return
	}
	if p := c.Query("bloodType"); p != "" {
		bt, err := diet.ParseBloodType(p)
		if err != nil {
			common.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		common.OK(c, http.StatusOK, gin.H{"herbs": h.catalog.HerbsFor(bt), "bloodType": bt})
		return
	}
	common.OK(c, http.StatusOK, gin.H{"herbs": h.catalog.Herbs()})
}

func (h *Handler) GetHerb(c *gin.Context) {
	herb, ok := h.catalog.HerbByID(c.Param("id"))
	if !ok {
		common.Fail(c, http.StatusNotFound, "herb not found")
		return
	}
	common.OK(c, http.StatusOK, herb)
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	foods := rg.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.GET("/categories", h.ListCategories)
		foods.GET("/:id", h.GetFood)
		foods.GET("/:id/compatibility/:bloodType", h.GetCompatibility)
	}

	herbs := rg.Group("/herbs")
	{
		herbs.GET("", h.ListHerbs)
		herbs.GET("/:id", h.GetHerb)
	}
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
