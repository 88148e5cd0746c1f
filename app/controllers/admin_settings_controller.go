package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/validate"
)

// settingKeys is the editable allow-list. Anything else 422s so typos do
// not quietly create dead rows.
var settingKeys = map[string]bool{
	"store_name":              true,
	"currency":                true,
	"free_shipping_threshold": true,
	"shipping_flat_fee":       true,
	"support_email":           true,
}

// AdminSettingsController edits site-wide settings. Writes invalidate the
// settings cache immediately; the change is visible on the next read.
type AdminSettingsController struct {
	settings *services.Settings
}

func NewAdminSettingsController(settings *services.Settings) *AdminSettingsController {
	return &AdminSettingsController{settings: settings}
}

// Show handles GET /api/admin/settings.
func (c *AdminSettingsController) Show(w http.ResponseWriter, r *http.Request) {
	out := map[string]interface{}{
		"store_name":              c.settings.Get("store_name", "Vastra"),
		"currency":                c.settings.Currency(),
		"free_shipping_threshold": c.settings.FreeShippingThreshold(),
		"shipping_flat_fee":       c.settings.ShippingFlatFee(),
		"support_email":           c.settings.Get("support_email", ""),
	}
	response.Success(w, out)
}

type settingRequest struct {
	Key   string `json:"key"   validate:"required,max=100"`
	Value string `json:"value" validate:"required"`
}

// Update handles PUT /api/admin/settings.
func (c *AdminSettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var body settingRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.ValidationError(w, errs)
		return
	}
	if errs := validate.Struct(&body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}
	if !settingKeys[body.Key] {
		response.Error(w, http.StatusUnprocessableEntity, "unknown setting "+body.Key)
		return
	}

	if err := c.settings.Put(body.Key, body.Value); err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]string{body.Key: body.Value})
}
