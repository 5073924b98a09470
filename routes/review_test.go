package routes

import (
	"net/http"
	"testing"

	"tourism-catalog-server/models"
	"tourism-catalog-server/storage"
)

func TestCreateReviewAttractionMissing(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)

	resp := doJSON(app, http.MethodPost, "/api/review", signAccessToken(t, u1),
		map[string]interface{}{"attractionID": 42, "rating": 5})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateReviewOncePerUserAndAttraction(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	u2 := createTestUser(t, "u2", models.RoleUser)
	attraction := createTestAttraction(t, "Cristo Redentor", "Rio de Janeiro", u1.ID)

	resp := doJSON(app, http.MethodPost, "/api/review", signAccessToken(t, u1),
		map[string]interface{}{"attractionID": attraction.ID, "rating": 5, "body": "stunning"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("first review: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp2 := doJSON(app, http.MethodPost, "/api/review", signAccessToken(t, u1),
		map[string]interface{}{"attractionID": attraction.ID, "rating": 1, "body": "changed my mind"})
	if resp2.Code != http.StatusConflict {
		t.Fatalf("second review by same user: expected 409, got %d: %s", resp2.Code, resp2.Body.String())
	}

	// the existing review must remain unchanged
	var existing models.Review
	storage.DB.Where("attraction_id = ? AND author_id = ?", attraction.ID, u1.ID).First(&existing)
	if existing.Rating != 5 || existing.Body != "stunning" {
		t.Fatalf("existing review mutated: rating=%d body=%q", existing.Rating, existing.Body)
	}

	// a different user still can review
	resp3 := doJSON(app, http.MethodPost, "/api/review", signAccessToken(t, u2),
		map[string]interface{}{"attractionID": attraction.ID, "rating": 3})
	if resp3.Code != http.StatusCreated {
		t.Fatalf("review by second user: expected 201, got %d: %s", resp3.Code, resp3.Body.String())
	}
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	attraction := createTestAttraction(t, "Pelourinho", "Salvador", u1.ID)

	resp := doJSON(app, http.MethodPost, "/api/review", signAccessToken(t, u1),
		map[string]interface{}{"attractionID": attraction.ID, "rating": 6})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAverageRating(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	attraction := createTestAttraction(t, "Lençóis", "Barreirinhas", u1.ID)

	var out struct {
		AverageRating float64 `json:"averageRating"`
	}

	resp := doJSON(app, http.MethodGet, "/api/review/attraction/1/average", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	decodeBody(t, resp, &out)
	if out.AverageRating != 0 {
		t.Fatalf("no reviews: expected average 0, got %v", out.AverageRating)
	}

	for i, rating := range []int{3, 4, 5} {
		author := createTestUser(t, "rater"+string(rune('a'+i)), models.RoleUser)
		storage.DB.Create(&models.Review{AttractionID: attraction.ID, AuthorID: author.ID, Rating: rating})
	}

	resp2 := doJSON(app, http.MethodGet, "/api/review/attraction/1/average", "", nil)
	decodeBody(t, resp2, &out)
	if out.AverageRating != 4 {
		t.Fatalf("reviews [3,4,5]: expected average 4, got %v", out.AverageRating)
	}
}

func TestReviewOwnerOnlyMutation(t *testing.T) {
	setupTestDB(t)
	app := buildCatalogApp()

	u1 := createTestUser(t, "u1", models.RoleUser)
	u2 := createTestUser(t, "u2", models.RoleUser)
	attraction := createTestAttraction(t, "Ouro Preto", "Ouro Preto", u1.ID)

	review := models.Review{AttractionID: attraction.ID, AuthorID: u1.ID, Rating: 4, Body: "charming"}
	storage.DB.Create(&review)

	resp := doJSON(app, http.MethodPatch, "/api/review/1", signAccessToken(t, u2),
		map[string]interface{}{"rating": 1})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("non-author update: expected 403, got %d", resp.Code)
	}

	var unchanged models.Review
	storage.DB.First(&unchanged, review.ID)
	if unchanged.Rating != 4 {
		t.Fatalf("review mutated by forbidden update: rating=%d", unchanged.Rating)
	}

	resp2 := doJSON(app, http.MethodDelete, "/api/review/1", signAccessToken(t, u2), nil)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("non-author delete: expected 403, got %d", resp2.Code)
	}

	resp3 := doJSON(app, http.MethodDelete, "/api/review/1", signAccessToken(t, u1), nil)
	if resp3.Code != http.StatusNoContent {
		t.Fatalf("author delete: expected 204, got %d", resp3.Code)
	}

	// hard delete frees the (attraction, author) pair for a fresh review
	resp4 := doJSON(app, http.MethodPost, "/api/review", signAccessToken(t, u1),
		map[string]interface{}{"attractionID": attraction.ID, "rating": 2})
	if resp4.Code != http.StatusCreated {
		t.Fatalf("re-review after delete: expected 201, got %d: %s", resp4.Code, resp4.Body.String())
	}
}
