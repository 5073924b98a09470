package routes

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
	"tourism-catalog-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type attractionRecord struct {
	Name        string  `json:"name" xml:"name"`
	Description string  `json:"description" xml:"description"`
	City        string  `json:"city" xml:"city"`
	State       string  `json:"state" xml:"state"`
	Country     string  `json:"country" xml:"country"`
	Latitude    float64 `json:"latitude" xml:"latitude"`
	Longitude   float64 `json:"longitude" xml:"longitude"`
	Address     string  `json:"address" xml:"address"`
	CreatedBy   string  `json:"createdBy" xml:"createdBy"`
	CreatedAt   string  `json:"createdAt" xml:"createdAt"`
}

type attractionExportXML struct {
	XMLName     xml.Name           `xml:"attractions"`
	Attractions []attractionRecord `xml:"attraction"`
}

type importResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors"`
}

var csvHeader = []string{
	"name", "description", "city", "state", "country",
	"latitude", "longitude", "address", "created_by", "created_at",
}

// ExportAttractions writes the filtered catalog as JSON, CSV or XML. Export
// ignores pagination on purpose.
func ExportAttractions(ctx iris.Context) {
	format := strings.ToLower(ctx.URLParamDefault("format", ""))

	query := storage.DB.Model(&models.Attraction{}).
		Preload("Creator", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, login")
		})
	if name := ctx.URLParamDefault("name", ""); name != "" {
		query = query.Where("name = ?", name)
	}
	if city := ctx.URLParamDefault("city", ""); city != "" {
		query = query.Where("city = ?", city)
	}
	if state := ctx.URLParamDefault("state", ""); state != "" {
		query = query.Where("state = ?", state)
	}

	var attractions []models.Attraction
	if err := query.Find(&attractions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	records := make([]attractionRecord, 0, len(attractions))
	for _, a := range attractions {
		createdBy := a.Creator.Login
		if createdBy == "" {
			createdBy = strconv.FormatUint(uint64(a.CreatorID), 10)
		}
		records = append(records, attractionRecord{
			Name:        a.Name,
			Description: a.Description,
			City:        a.City,
			State:       a.State,
			Country:     a.Country,
			Latitude:    a.Latitude,
			Longitude:   a.Longitude,
			Address:     a.Address,
			CreatedBy:   createdBy,
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		})
	}

	switch format {
	case "json":
		ctx.Header("Content-Disposition", `attachment; filename="attractions.json"`)
		ctx.JSON(records)
	case "csv":
		ctx.ContentType("text/csv")
		ctx.Header("Content-Disposition", `attachment; filename="attractions.csv"`)
		writer := csv.NewWriter(ctx.ResponseWriter())
		writer.Write(csvHeader)
		for _, r := range records {
			writer.Write([]string{
				r.Name, r.Description, r.City, r.State, r.Country,
				strconv.FormatFloat(r.Latitude, 'f', -1, 64),
				strconv.FormatFloat(r.Longitude, 'f', -1, 64),
				r.Address, r.CreatedBy, r.CreatedAt,
			})
		}
		writer.Flush()
	case "xml":
		ctx.ContentType("application/xml")
		ctx.Header("Content-Disposition", `attachment; filename="attractions.xml"`)
		ctx.WriteString(xml.Header)
		out, err := xml.MarshalIndent(attractionExportXML{Attractions: records}, "", "  ")
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.Write(out)
	default:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown export format: "+format, ctx)
	}
}

// ImportAttractions ingests a JSON, CSV or XML document previously produced
// by export (or hand-built with the same fields). Items whose (name, city)
// already exists are skipped; per-item failures are collected, not fatal.
func ImportAttractions(ctx iris.Context) {
	ctx.SetMaxRequestBodySize(32 << 20)

	if err := ctx.Request().ParseMultipartForm(16 << 20); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid multipart payload.", ctx)
		return
	}

	format := strings.ToLower(ctx.FormValue("format"))

	files := ctx.Request().MultipartForm.File["file"]
	if len(files) == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "A file is required.", ctx)
		return
	}

	file, openErr := files[0].Open()
	if openErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	defer file.Close()

	content, readErr := io.ReadAll(file)
	if readErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var records []attractionRecord
	var parseErr error
	switch format {
	case "json":
		parseErr = json.Unmarshal(content, &records)
	case "csv":
		records, parseErr = parseAttractionCSV(content)
	case "xml":
		var doc attractionExportXML
		parseErr = xml.Unmarshal(content, &doc)
		records = doc.Attractions
	default:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Unknown import format: "+format, ctx)
		return
	}
	if parseErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Could not parse "+format+": "+parseErr.Error(), ctx)
		return
	}

	userID := utils.CurrentUserID(ctx)
	result := importResult{Total: len(records), Errors: []string{}}

	for _, r := range records {
		if r.Name == "" || r.City == "" {
			result.Errors = append(result.Errors, "item missing name or city")
			continue
		}

		taken, checkErr := attractionNameTakenInCity(r.Name, r.City, 0)
		if checkErr != nil {
			result.Errors = append(result.Errors, "error importing "+r.Name+": "+checkErr.Error())
			continue
		}
		if taken {
			result.Skipped++
			continue
		}

		attraction := models.Attraction{
			Name:        r.Name,
			Description: r.Description,
			City:        r.City,
			State:       r.State,
			Country:     r.Country,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Address:     r.Address,
			CreatorID:   userID,
		}
		if err := storage.DB.Create(&attraction).Error; err != nil {
			result.Errors = append(result.Errors, "error importing "+r.Name+": "+err.Error())
			continue
		}
		result.Imported++
	}

	errorsJSON, _ := json.Marshal(result.Errors)
	run := models.ImportRun{
		UserID:   userID,
		Format:   format,
		Total:    result.Total,
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Errors:   datatypes.JSON(errorsJSON),
	}
	storage.DB.Create(&run)

	ctx.JSON(result)
}

func parseAttractionCSV(content []byte) ([]attractionRecord, error) {
	reader := csv.NewReader(strings.NewReader(string(content)))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// map header columns so field order doesn't matter
	index := map[string]int{}
	for i, col := range rows[0] {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]attractionRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		lat, _ := strconv.ParseFloat(field(row, "latitude"), 64)
		lng, _ := strconv.ParseFloat(field(row, "longitude"), 64)
		records = append(records, attractionRecord{
			Name:        field(row, "name"),
			Description: field(row, "description"),
			City:        field(row, "city"),
			State:       field(row, "state"),
			Country:     field(row, "country"),
			Latitude:    lat,
			Longitude:   lng,
			Address:     field(row, "address"),
		})
	}
	return records, nil
}
