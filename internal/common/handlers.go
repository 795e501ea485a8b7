package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	InternalServerLatency string `json:"internal_server_latency"`
	Uptime                string `json:"uptime"`
	Foods                 int    `json:"foods"`
	Herbs                 int    `json:"herbs"`
}

// CatalogStats is the slice of the catalog the status endpoint reports on.
type CatalogStats interface {
	FoodCount() int
	HerbCount() int
}

// Uptime Logic
var startTime = time.Now()

func uptime() time.Duration {
	return time.Since(startTime)
}

// Ping Logic
func ping() time.Duration {
	start := time.Now()
	return time.Since(start)
}

func Status(stats CatalogStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := StatusResponse{
			InternalServerLatency: ping().String(),
			Uptime:                uptime().Truncate(time.Second).String(),
		}
		if stats != nil {
			data.Foods = stats.FoodCount()
			data.Herbs = stats.HerbCount()
		}
		OK(c, http.StatusOK, data)
	}
}

func RegisterRoutes(rg *gin.RouterGroup, stats CatalogStats) {
	rg.GET("/status", Status(stats))
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
