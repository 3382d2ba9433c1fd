package handlers

import (
	"net/http"
	"strconv"

	"pokemon_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgSpriteCreated = "sprite created"
	msgSpriteUpdated = "sprite updated"
)

// spriteRequest is the body of POST and PUT /pokemon. PUT accepts either field alone.
type spriteRequest struct {
	URL  string `json:"url" example:"https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png"`
	Name string `json:"name" example:"pikachu"`
}

func parseSpriteID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validationErr("id must be a positive integer")
	}
	return id, nil
}

func validateSpriteUpdate(in spriteRequest) (service.UpdateSpriteParams, error) {
	if in.URL == "" && in.Name == "" {
		return service.UpdateSpriteParams{}, validationErr("url or name is required")
	}
	return service.UpdateSpriteParams{URL: in.URL, Name: in.Name}, nil
}

// @Summary   List sprites
// @Tags      pokemon
// @Produce   json
// @Success   200  {array}   pokemon_portal.Sprite
// @Failure   401  {object}  pokemon_portal.ErrorResponse
// @Router    /pokemon [get]
// @Security  BearerAuth
func (h *Handler) listSprites(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Sprites.List(c.Request.Context()))
}

// @Summary      Random sprite
// @Description  Fetches a random pokemon from PokeAPI and stores its sprite.
// @Tags         pokemon
// @Produce      json
// @Success      200  {object}  map[string]string  "url"
// @Failure      401  {object}  pokemon_portal.ErrorResponse
// @Failure      502  {object}  pokemon_portal.ErrorResponse
// @Router       /pokemon/random [get]
// @Security     BearerAuth
func (h *Handler) randomSprite(c *gin.Context) {
	sp, err := h.services.Sprites.FetchRandom(c.Request.Context())
	if err != nil {
		h.respondError(c, "pokemon_random_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": sp.URL})
}

// @Summary   Get sprite
// @Tags      pokemon
// @Produce   json
// @Param     id   path      int  true  "sprite id"
// @Success   200  {object}  pokemon_portal.Sprite
// @Failure   400  {object}  pokemon_portal.ErrorResponse
// @Failure   404  {object}  pokemon_portal.ErrorResponse
// @Router    /pokemon/{id} [get]
// @Security  BearerAuth
func (h *Handler) getSprite(c *gin.Context) {
	id, err := parseSpriteID(c.Param("id"))
	if err != nil {
		h.respondError(c, "pokemon_get_bad_id", err)
		return
	}
	sp, err := h.services.Sprites.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "pokemon_get_failed", err, "sprite_id", id)
		return
	}
	c.JSON(http.StatusOK, sp)
}

// @Summary   Create sprite
// @Tags      pokemon
// @Accept    json
// @Produce   json
// @Param     body  body      spriteRequest  true  "sprite"
// @Success   201   {object}  map[string]interface{}  "message, data"
// @Failure   400   {object}  pokemon_portal.ErrorResponse
// @Router    /pokemon [post]
// @Security  BearerAuth
func (h *Handler) createSprite(c *gin.Context) {
	var input spriteRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "pokemon_create_bad_body"); !ok {
		return
	}
	sp, err := h.services.Sprites.Create(c.Request.Context(), input.URL, input.Name)
	if err != nil {
		h.respondError(c, "pokemon_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msgSpriteCreated, "data": sp})
}

// @Summary   Update sprite
// @Tags      pokemon
// @Accept    json
// @Produce   json
// @Param     id    path      int            true  "sprite id"
// @Param     body  body      spriteRequest  true  "fields to change"
// @Success   200   {object}  map[string]interface{}  "message, data"
// @Failure   400   {object}  pokemon_portal.ErrorResponse
// @Failure   404   {object}  pokemon_portal.ErrorResponse
// @Router    /pokemon/{id} [put]
// @Security  BearerAuth
func (h *Handler) updateSprite(c *gin.Context) {
	id, err := parseSpriteID(c.Param("id"))
	if err != nil {
		h.respondError(c, "pokemon_update_bad_id", err)
		return
	}
	var input spriteRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "pokemon_update_bad_body"); !ok {
		return
	}
	params, err := validateSpriteUpdate(input)
	if err != nil {
		h.respondError(c, "pokemon_update_invalid", err)
		return
	}
	sp, err := h.services.Sprites.Update(c.Request.Context(), id, params)
	if err != nil {
		h.respondError(c, "pokemon_update_failed", err, "sprite_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgSpriteUpdated, "data": sp})
}

// @Summary   Delete sprite
// @Tags      pokemon
// @Produce   json
// @Param     id   path      int  true  "sprite id"
// @Success   200  {object}  service.RemoveResult
// @Failure   400  {object}  pokemon_portal.ErrorResponse
// @Router    /pokemon/{id} [delete]
// @Security  BearerAuth
func (h *Handler) deleteSprite(c *gin.Context) {
	id, err := parseSpriteID(c.Param("id"))
	if err != nil {
		h.respondError(c, "pokemon_delete_bad_id", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Sprites.Remove(c.Request.Context(), id))
}

// @Summary   Delete all sprites
// @Tags      pokemon
// @Produce   json
// @Success   200  {object}  service.RemoveAllResult
// @Router    /pokemon/all [delete]
// @Security  BearerAuth
func (h *Handler) deleteAllSprites(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Sprites.RemoveAll(c.Request.Context()))
}
