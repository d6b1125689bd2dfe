package crawler

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Unavailable is the sentinel stored for every field that could not be
// extracted. Records always carry the full column set; absence is never
// encoded as an empty cell.
const Unavailable = "N/A"

// Listing represents one scraped real-estate ad. All attribute fields are
// captured as free text; numeric coercion is the dashboard's job.
type Listing struct {
	AdID                 string `json:"ad_id"`
	URL                  string `json:"url"`
	Title                string `json:"title"`
	Price                string `json:"price"`
	RoomCountRaw         string `json:"room_count_raw"`
	AreaRaw              string `json:"area_raw"`
	FloorLevel           string `json:"floor_level"`
	FloorCount           string `json:"floor_count"`
	DistrictRaw          string `json:"district_raw"`
	LocationRaw          string `json:"location_raw"`
	Balcony              string `json:"balcony"`
	Garage               string `json:"garage"`
	WindowType           string `json:"window_type"`
	DoorType             string `json:"door_type"`
	FloorMaterial        string `json:"floor_material"`
	WindowCount          string `json:"window_count"`
	ConstructionProgress string `json:"construction_progress"`
	CommissionedYear     string `json:"commissioned_year"`
	LeasingRaw           string `json:"leasing_raw"`
	Description          string `json:"description"`
	PostedRaw            string `json:"posted_raw"`
	ViewCountRaw         string `json:"view_count_raw"`
	ScrapedDate          string `json:"scraped_date"`
}

// Header returns the snapshot column names in persistence order
func Header() []string {
	return []string{
		"ad_id", "url", "title", "price", "room_count_raw", "area_raw",
		"floor_level", "floor_count", "district_raw", "location_raw",
		"balcony", "garage", "window_type", "door_type", "floor_material",
		"window_count", "construction_progress", "commissioned_year",
		"leasing_raw", "description", "posted_raw", "view_count_raw",
		"scraped_date",
	}
}

// Row returns the listing's values in Header order
func (l *Listing) Row() []string {
	return []string{
		l.AdID, l.URL, l.Title, l.Price, l.RoomCountRaw, l.AreaRaw,
		l.FloorLevel, l.FloorCount, l.DistrictRaw, l.LocationRaw,
		l.Balcony, l.Garage, l.WindowType, l.DoorType, l.FloorMaterial,
		l.WindowCount, l.ConstructionProgress, l.CommissionedYear,
		l.LeasingRaw, l.Description, l.PostedRaw, l.ViewCountRaw,
		l.ScrapedDate,
	}
}

// FromRow rebuilds a listing from a snapshot row in Header order
func FromRow(row []string) (Listing, error) {
	if len(row) != len(Header()) {
		return Listing{}, fmt.Errorf("row has %d columns, want %d", len(row), len(Header()))
	}
	return Listing{
		AdID: row[0], URL: row[1], Title: row[2], Price: row[3],
		RoomCountRaw: row[4], AreaRaw: row[5], FloorLevel: row[6],
		FloorCount: row[7], DistrictRaw: row[8], LocationRaw: row[9],
		Balcony: row[10], Garage: row[11], WindowType: row[12],
		DoorType: row[13], FloorMaterial: row[14], WindowCount: row[15],
		ConstructionProgress: row[16], CommissionedYear: row[17],
		LeasingRaw: row[18], Description: row[19], PostedRaw: row[20],
		ViewCountRaw: row[21], ScrapedDate: row[22],
	}, nil
}

// AdID derives the stable identifier for an ad from its canonical URL.
// Same URL, same id, across runs; re-scraping stays idempotent.
func AdID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
