package handlers

import (
	"net/http"
	"net/netip"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/anstrom/lanwatch/internal/classify"
	"github.com/anstrom/lanwatch/internal/device"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
)

// DeviceHandler serves the device registry.
type DeviceHandler struct {
	store  DeviceStore
	logger *logging.Logger
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(store DeviceStore, logger *logging.Logger) *DeviceHandler {
	return &DeviceHandler{
		store:  store,
		logger: logger.WithFields("handler", "devices"),
	}
}

// DeviceListResponse is the body of GET /devices.
type DeviceListResponse struct {
	Devices []device.Device `json:"devices"`
	Total   int             `json:"total"`
	Online  int             `json:"online"`
}

// DeviceDetail adds derived scores to a device.
type DeviceDetail struct {
	device.Device
	RiskScore   int    `json:"riskScore"`
	UptimeTrend string `json:"uptimeTrend"`
}

// ListDevices handles GET /devices. The optional online and type query
// parameters filter the list.
//
// @Summary List devices
// @Tags Devices
// @Produce json
// @Param online query bool false "Filter by online state"
// @Param type query string false "Filter by device type"
// @Success 200 {object} DeviceListResponse
// @Failure 400 {object} ErrorResponse
// @Router /devices [get]
func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var onlineFilter *bool
	if v := query.Get("online"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, h.logger, http.StatusBadRequest,
				lwerrors.ErrConfigInvalid("online", v))
			return
		}
		onlineFilter = &parsed
	}
	typeFilter := device.DeviceType(query.Get("type"))

	all := h.store.All()
	resp := DeviceListResponse{Devices: make([]device.Device, 0, len(all))}
	for _, d := range all {
		if onlineFilter != nil && d.Online != *onlineFilter {
			continue
		}
		if typeFilter != "" && d.DeviceType != typeFilter {
			continue
		}
		resp.Devices = append(resp.Devices, d)
		if d.Online {
			resp.Online++
		}
	}
	resp.Total = len(resp.Devices)

	writeJSON(w, r, h.logger, http.StatusOK, resp)
}

// GetDevice handles GET /devices/{address}.
//
// @Summary Get one device
// @Tags Devices
// @Produce json
// @Param address path string true "IPv4 address"
// @Success 200 {object} DeviceDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /devices/{address} [get]
func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	addr, err := netip.ParseAddr(address)
	if err != nil || !addr.Is4() {
		writeError(w, r, h.logger, http.StatusBadRequest,
			lwerrors.NewScanErrorWithTarget(lwerrors.CodeTargetInvalid, "invalid IPv4 address", address))
		return
	}

	d, ok := h.store.Get(addr.String())
	if !ok {
		writeEngineError(w, r, h.logger, lwerrors.ErrDeviceNotFound(address))
		return
	}

	writeJSON(w, r, h.logger, http.StatusOK, DeviceDetail{
		Device:      d,
		RiskScore:   classify.Score(d),
		UptimeTrend: classify.Trend(d),
	})
}

// ClearDevices handles DELETE /devices.
//
// @Summary Clear the device registry
// @Tags Devices
// @Produce json
// @Success 200 {object} map[string]int
// @Router /devices [delete]
func (h *DeviceHandler) ClearDevices(w http.ResponseWriter, r *http.Request) {
	removed := h.store.Len()
	h.store.Clear()
	h.logger.Info("device registry cleared", "removed", removed)

	writeJSON(w, r, h.logger, http.StatusOK, map[string]int{"removed": removed})
}
