package facility_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-facility-booking/internal/facility"
	"ms-facility-booking/internal/logger"
	"ms-facility-booking/internal/models"
	"ms-facility-booking/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	FacilityService *facility.Service
	Logger          *logger.Logger
}

func NewHandler(facilityService *facility.Service, log *logger.Logger) *Handler {
	return &Handler{
		FacilityService: facilityService,
		Logger:          log,
	}
}

func (h *Handler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateFacility: received request")

	var req models.FacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateFacility: failed to decode request body: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}
	if req.Name == "" || req.PricePerHour <= 0 {
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, "name and a positive pricePerHour are required"))
		return
	}

	created, err := h.FacilityService.Create(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateFacility: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to create facility"))
		return
	}

	resp := utils.SuccessResponse("Facility added successfully", created)
	resp.StatusCode = http.StatusCreated
	utils.WriteJSON(w, resp)
}

func (h *Handler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := chi.URLParam(r, "facilityId")
	h.Logger.Info("API", fmt.Sprintf("UpdateFacility: facilityId=%s", facilityID))

	var req models.FacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateFacility: failed to decode request body: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusBadRequest, "Invalid request body: "+err.Error()))
		return
	}

	updated, err := h.FacilityService.Update(facilityID, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteJSON(w, utils.ErrorResponse(http.StatusNotFound, "Facility not found"))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("UpdateFacility: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to update facility"))
		return
	}

	utils.WriteJSON(w, utils.SuccessResponse("Facility updated successfully", updated))
}

// DeleteFacility soft deletes: the row survives for reporting but the
// facility disappears from listings and lookups.
func (h *Handler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := chi.URLParam(r, "facilityId")
	h.Logger.Info("API", fmt.Sprintf("DeleteFacility: facilityId=%s", facilityID))

	deleted, err := h.FacilityService.Delete(facilityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteJSON(w, utils.ErrorResponse(http.StatusNotFound, "Facility not found"))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("DeleteFacility: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to delete facility"))
		return
	}

	utils.WriteJSON(w, utils.SuccessResponse("Facility deleted successfully", deleted))
}

func (h *Handler) AllFacilities(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "AllFacilities: received request")

	facilities, err := h.FacilityService.All()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("AllFacilities: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to retrieve facilities"))
		return
	}

	if len(facilities) == 0 {
		utils.WriteJSON(w, utils.NoDataResponse())
		return
	}
	utils.WriteJSON(w, utils.SuccessResponse("Facilities retrieved successfully", facilities))
}

func (h *Handler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := chi.URLParam(r, "facilityId")
	h.Logger.Info("API", fmt.Sprintf("GetFacility: facilityId=%s", facilityID))

	found, err := h.FacilityService.Lookup(facilityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.WriteJSON(w, utils.ErrorResponse(http.StatusNotFound, "Facility not found"))
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetFacility: %v", err))
		utils.WriteJSON(w, utils.ErrorResponse(http.StatusInternalServerError, "failed to retrieve facility"))
		return
	}

	utils.WriteJSON(w, utils.SuccessResponse("Facility retrieved successfully", found))
}
