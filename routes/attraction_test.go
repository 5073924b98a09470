package routes

import (
	"errors"
	"net/http"
	"testing"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"

	"gorm.io/gorm"
)

// Losing a create race must read as a duplicate-key error so the handlers
// can answer 409 for it and keep 500 for real store failures.
func TestUniqueIndexesSurfaceDuplicateKey(t *testing.T) {
	setupTestDB(t)

	u1 := createTestUser(t, "u1", models.RoleUser)
	attraction := createTestAttraction(t, "Cristo Redentor", "Rio de Janeiro", u1.ID)

	dup := models.Attraction{
		Name:      "Cristo Redentor",
		City:      "Rio de Janeiro",
		CreatorID: u1.ID,
	}
	if err := storage.DB.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate (name, city): expected gorm.ErrDuplicatedKey, got %v", err)
	}

	first := models.Review{AttractionID: attraction.ID, AuthorID: u1.ID, Rating: 5}
	if err := storage.DB.Create(&first).Error; err != nil {
		t.Fatalf("creating review: %v", err)
	}
	second := models.Review{AttractionID: attraction.ID, AuthorID: u1.ID, Rating: 3}
	if err := storage.DB.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate (attraction, author): expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestCreateAttractionDuplicateNameInCity(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	u2 := createTestUser(t, "u2", models.RoleUser)

	payload := map[string]interface{}{
		"name":        "Cristo Redentor",
		"description": "statue atop Corcovado",
		"city":        "Rio de Janeiro",
		"state":       "RJ",
		"country":     "Brazil",
		"latitude":    -22.9519,
		"longitude":   -43.2105,
		"address":     "Parque Nacional da Tijuca",
	}

	resp := doJSON(app, http.MethodPost, "/api/attraction", signAccessToken(t, u1), payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created models.Attraction
	decodeBody(t, resp, &created)
	if created.CreatorID != u1.ID {
		t.Fatalf("expected creatorID %d, got %d", u1.ID, created.CreatorID)
	}

	// identical (name, city) from another actor must conflict
	resp2 := doJSON(app, http.MethodPost, "/api/attraction", signAccessToken(t, u2), payload)
	if resp2.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d: %s", resp2.Code, resp2.Body.String())
	}

	// same name in a different city is fine
	payload["city"] = "Petropolis"
	resp3 := doJSON(app, http.MethodPost, "/api/attraction", signAccessToken(t, u2), payload)
	if resp3.Code != http.StatusCreated {
		t.Fatalf("different city create: expected 201, got %d: %s", resp3.Code, resp3.Body.String())
	}
}

func TestUpdateAttractionOwnership(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	u2 := createTestUser(t, "u2", models.RoleUser)
	attraction := createTestAttraction(t, "Cristo Redentor", "Rio de Janeiro", u1.ID)

	resp := doJSON(app, http.MethodPatch, "/api/attraction/1", signAccessToken(t, u2),
		map[string]interface{}{"name": "Hijacked"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("non-owner update: expected 403, got %d", resp.Code)
	}

	var unchanged models.Attraction
	storage.DB.First(&unchanged, attraction.ID)
	if unchanged.Name != "Cristo Redentor" {
		t.Fatalf("record mutated by forbidden update: %q", unchanged.Name)
	}

	resp2 := doJSON(app, http.MethodPatch, "/api/attraction/1", signAccessToken(t, u1),
		map[string]interface{}{"description": "updated by owner"})
	if resp2.Code != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d: %s", resp2.Code, resp2.Body.String())
	}
}

// Changing only the city must re-run the uniqueness check against the new
// city, not the old one.
func TestUpdateAttractionCityRechecksUniqueness(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	createTestAttraction(t, "Mercado Central", "Fortaleza", u1.ID)
	mine := createTestAttraction(t, "Mercado Central", "Recife", u1.ID)

	// moving mine into Fortaleza collides with the existing record there
	resp := doJSON(app, http.MethodPatch, "/api/attraction/2", signAccessToken(t, u1),
		map[string]interface{}{"city": "Fortaleza"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("city move onto duplicate: expected 409, got %d: %s", resp.Code, resp.Body.String())
	}

	var unchanged models.Attraction
	storage.DB.First(&unchanged, mine.ID)
	if unchanged.City != "Recife" {
		t.Fatalf("city changed despite conflict: %q", unchanged.City)
	}

	// moving to a free city works
	resp2 := doJSON(app, http.MethodPatch, "/api/attraction/2", signAccessToken(t, u1),
		map[string]interface{}{"city": "Natal"})
	if resp2.Code != http.StatusOK {
		t.Fatalf("city move to free city: expected 200, got %d: %s", resp2.Code, resp2.Body.String())
	}
}

func TestDeleteAttractionOwnershipAndCascade(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	u2 := createTestUser(t, "u2", models.RoleUser)
	attraction := createTestAttraction(t, "Pelourinho", "Salvador", u1.ID)

	storage.DB.Create(&models.Review{AttractionID: attraction.ID, AuthorID: u2.ID, Rating: 4})
	storage.DB.Create(&models.Lodging{AttractionID: attraction.ID, Name: "Hostel Bahia", Address: "Rua 1", Kind: models.LodgingHostel})

	resp := doJSON(app, http.MethodDelete, "/api/attraction/1", signAccessToken(t, u2), nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", resp.Code)
	}

	resp2 := doJSON(app, http.MethodDelete, "/api/attraction/1", signAccessToken(t, u1), nil)
	if resp2.Code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d: %s", resp2.Code, resp2.Body.String())
	}

	var reviewCount, lodgingCount int64
	storage.DB.Model(&models.Review{}).Where("attraction_id = ?", attraction.ID).Count(&reviewCount)
	storage.DB.Model(&models.Lodging{}).Where("attraction_id = ?", attraction.ID).Count(&lodgingCount)
	if reviewCount != 0 || lodgingCount != 0 {
		t.Fatalf("cascade failed: %d reviews, %d lodgings left", reviewCount, lodgingCount)
	}
}

func TestGetAttractionNotFound(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	resp := doJSON(app, http.MethodGet, "/api/attraction/99", "", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestGetAttractionsFiltersAndPagination(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	createTestAttraction(t, "A", "Rio de Janeiro", u1.ID)
	createTestAttraction(t, "B", "Rio de Janeiro", u1.ID)
	createTestAttraction(t, "C", "Salvador", u1.ID)

	resp := doJSON(app, http.MethodGet, "/api/attraction?city=Rio+de+Janeiro&page=1&pageSize=1", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var page struct {
		Data  []models.Attraction `json:"data"`
		Total int64               `json:"total"`
	}
	decodeBody(t, resp, &page)
	if page.Total != 2 {
		t.Fatalf("expected total 2, got %d", page.Total)
	}
	if len(page.Data) != 1 {
		t.Fatalf("expected 1 item on page, got %d", len(page.Data))
	}
}
