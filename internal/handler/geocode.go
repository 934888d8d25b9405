package handler

import (
	"context"
	"net/http"

	"abr-geocoder/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MaxBatchSize caps the number of addresses accepted by one batch request.
const MaxBatchSize = 1000

// GeoCodeHandler handles geocoding requests
type GeoCodeHandler struct {
	service GeoCodeService
}

// GeoCodeService interface for dependency injection
type GeoCodeService interface {
	Geocode(context.Context, string) (models.Query, error)
	GeocodeBatch(context.Context, []string) ([]models.Query, error)
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc}
}

// GeoCode handles GET /geocode requests
//
//	@Summary	Geocode one address
//	@Tags		geocode
//	@Produce	json
//	@Param		q	query		string	true	"address line"
//	@Success	200	{object}	QueryResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/geocode [get]
func (h *GeoCodeHandler) GeoCode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	result, err := h.service.Geocode(c.Request.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("input", query).Msg("geocode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GeoCodeBatch handles POST /geocode/batch requests
//
//	@Summary	Geocode a list of addresses
//	@Tags		geocode
//	@Accept		json
//	@Produce	json
//	@Param		addresses	body		[]string	true	"address lines"
//	@Success	200			{array}		QueryResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	429			{object}	ErrorResponse
//	@Failure	500			{object}	ErrorResponse
//	@Router		/geocode/batch [post]
func (h *GeoCodeHandler) GeoCodeBatch(c *gin.Context) {
	var addresses []string
	if err := c.ShouldBindJSON(&addresses); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON array of strings"})
		return
	}
	if len(addresses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no addresses given"})
		return
	}
	if len(addresses) > MaxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many addresses"})
		return
	}

	results, err := h.service.GeocodeBatch(c.Request.Context(), addresses)
	if err != nil {
		log.Error().Err(err).Int("size", len(addresses)).Msg("batch geocode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// QueryResponse documents the JSON form of models.Query.
type QueryResponse struct {
	Input      string   `json:"input" example:"東京都千代田区紀尾井町1-3"`
	Output     string   `json:"output" example:"東京都千代田区紀尾井町1-3"`
	Other      string   `json:"other"`
	MatchLevel string   `json:"match_level" example:"RESIDENTIAL_DETAIL"`
	Level      int      `json:"level" example:"8"`
	Latitude   *float64 `json:"lat" example:"35.679107172"`
	Longitude  *float64 `json:"lon" example:"139.736394597"`
	Prefecture *string  `json:"prefecture" example:"東京都"`
	City       *string  `json:"city" example:"千代田区"`
	LgCode     *string  `json:"lg_code" example:"131016"`
	Town       *string  `json:"town" example:"紀尾井町"`
	TownID     *string  `json:"town_id" example:"0056000"`
	Koaza      *string  `json:"koaza"`
	Block      *string  `json:"block" example:"1"`
	BlockID    *string  `json:"block_id" example:"001"`
	Addr1      *string  `json:"addr1" example:"3"`
	Addr1ID    *string  `json:"addr1_id" example:"003"`
	Addr2      *string  `json:"addr2"`
	Addr2ID    *string  `json:"addr2_id"`
	PrcNum1    *string  `json:"prc_num1"`
	PrcNum2    *string  `json:"prc_num2"`
	PrcNum3    *string  `json:"prc_num3"`
	PrcID      *string  `json:"prc_id"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
