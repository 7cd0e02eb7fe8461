// Package handlers provides HTTP handlers for simulation operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/qsim/internal/modules/faults"
	"github.com/aristath/qsim/internal/modules/quantum"
	"github.com/aristath/qsim/pkg/algebra"
)

// Handler handles simulation HTTP requests
type Handler struct {
	session *quantum.Service
	eps     float64
	log     zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(session *quantum.Service, prec algebra.Precision, log zerolog.Logger) *Handler {
	return &Handler{
		session: session,
		eps:     prec.Eps(),
		log:     log.With().Str("handler", "quantum").Logger(),
	}
}

// ComplexPayload is a complex number in request/response bodies
type ComplexPayload struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

func (p ComplexPayload) toComplex() algebra.Complex {
	return algebra.Complex{Real: p.Real, Imag: p.Imag}
}

// AxisPayload is a rotation axis in request bodies
type AxisPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p AxisPayload) toVector() algebra.Vector {
	return algebra.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// MatrixPayload is a 2x2 complex matrix in request bodies
type MatrixPayload struct {
	R0C0 ComplexPayload `json:"r0c0"`
	R0C1 ComplexPayload `json:"r0c1"`
	R1C0 ComplexPayload `json:"r1c0"`
	R1C1 ComplexPayload `json:"r1c1"`
}

func (p MatrixPayload) toMatrix() algebra.Matrix2 {
	return algebra.Matrix2{
		R0C0: p.R0C0.toComplex(),
		R0C1: p.R0C1.toComplex(),
		R1C0: p.R1C0.toComplex(),
		R1C1: p.R1C1.toComplex(),
	}
}

// RotateRequest represents a rotation request
type RotateRequest struct {
	Target  int         `json:"target"`
	Control *int        `json:"control,omitempty"`
	Angle   float64     `json:"angle"`
	Axis    AxisPayload `json:"axis"`
	Conj    bool        `json:"conj,omitempty"`
}

// UnitaryRequest represents a general 2x2 unitary request
type UnitaryRequest struct {
	Target int           `json:"target"`
	Matrix MatrixPayload `json:"matrix"`
}

// CompactUnitaryRequest represents an (alpha, beta) unitary request
type CompactUnitaryRequest struct {
	Target  int            `json:"target"`
	Control *int           `json:"control,omitempty"`
	Alpha   ComplexPayload `json:"alpha"`
	Beta    ComplexPayload `json:"beta"`
}

// PhaseRequest represents a phase shift request
type PhaseRequest struct {
	Target int     `json:"target"`
	Angle  float64 `json:"angle"`
}

// GateRequest represents a named fixed gate request
type GateRequest struct {
	Target int    `json:"target"`
	Gate   string `json:"gate"`
}

// InitRequest represents a state initialization request
type InitRequest struct {
	State string `json:"state"` // zero | plus
}

// ResetRequest represents a register reset request
type ResetRequest struct {
	NumQubits int `json:"num_qubits"`
}

// DecomposeRequest represents a rotation decomposition request
type DecomposeRequest struct {
	Angle      float64     `json:"angle"`
	Axis       AxisPayload `json:"axis"`
	Conj       bool        `json:"conj,omitempty"`
	Controlled bool        `json:"controlled,omitempty"`
}

// ValidateUnitaryRequest represents a unitarity validation request
type ValidateUnitaryRequest struct {
	Matrix MatrixPayload `json:"matrix"`
}

// HandleRotate handles POST /api/quantum/rotate
func (h *Handler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	var req RotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	if req.Control != nil {
		err = h.session.ControlledRotate(*req.Control, req.Target, req.Angle, req.Axis.toVector(), req.Conj)
	} else {
		err = h.session.Rotate(req.Target, req.Angle, req.Axis.toVector(), req.Conj)
	}
	if err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.writeState(w)
}

// HandleUnitary handles POST /api/quantum/unitary
func (h *Handler) HandleUnitary(w http.ResponseWriter, r *http.Request) {
	var req UnitaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.session.Unitary(req.Target, req.Matrix.toMatrix()); err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.writeState(w)
}

// HandleCompactUnitary handles POST /api/quantum/compact-unitary
func (h *Handler) HandleCompactUnitary(w http.ResponseWriter, r *http.Request) {
	var req CompactUnitaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	if req.Control != nil {
		err = h.session.ControlledCompactUnitary(*req.Control, req.Target, req.Alpha.toComplex(), req.Beta.toComplex())
	} else {
		err = h.session.CompactUnitary(req.Target, req.Alpha.toComplex(), req.Beta.toComplex())
	}
	if err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.writeState(w)
}

// HandlePhase handles POST /api/quantum/phase
func (h *Handler) HandlePhase(w http.ResponseWriter, r *http.Request) {
	var req PhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.session.PhaseShift(req.Target, req.Angle); err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.writeState(w)
}

// HandleGate handles POST /api/quantum/gate
func (h *Handler) HandleGate(w http.ResponseWriter, r *http.Request) {
	var req GateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.session.NamedGate(req.Gate, req.Target); err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.writeState(w)
}

// HandleInit handles POST /api/quantum/init
func (h *Handler) HandleInit(w http.ResponseWriter, r *http.Request) {
	var req InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.State {
	case "zero", "":
		h.session.InitZero()
	case "plus":
		h.session.InitPlus()
	default:
		http.Error(w, "State must be 'zero' or 'plus'", http.StatusBadRequest)
		return
	}

	h.writeState(w)
}

// HandleReset handles POST /api/quantum/reset
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.session.Reset(req.NumQubits); err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.writeState(w)
}

// HandleGetProbabilities handles GET /api/quantum/probabilities
func (h *Handler) HandleGetProbabilities(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"num_qubits":        h.session.NumQubits(),
			"probabilities":     h.session.Probabilities(),
			"total_probability": h.session.TotalProbability(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetParams handles GET /api/quantum/params
func (h *Handler) HandleGetParams(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"num_qubits": h.session.NumQubits(),
			"report":     h.session.Params(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleDecompose handles POST /api/quantum/decompose
func (h *Handler) HandleDecompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	axis := req.Axis.toVector()
	if axis.Magnitude() == 0 {
		http.Error(w, "Axis must be non-zero", http.StatusBadRequest)
		return
	}

	var alpha, beta algebra.Complex
	switch {
	case req.Controlled && req.Conj:
		alpha, beta = algebra.DecomposeControlledRotationConj(req.Angle, axis)
	case req.Controlled:
		alpha, beta = algebra.DecomposeControlledRotation(req.Angle, axis)
	case req.Conj:
		alpha, beta = algebra.DecomposeRotationConj(req.Angle, axis)
	default:
		alpha, beta = algebra.DecomposeRotation(req.Angle, axis)
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"angle": req.Angle,
			"alpha": ComplexPayload{Real: alpha.Real, Imag: alpha.Imag},
			"beta":  ComplexPayload{Real: beta.Real, Imag: beta.Imag},
			"valid": algebra.IsValidAlphaBeta(alpha, beta, h.eps),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleValidateUnitary handles POST /api/quantum/validate-unitary
func (h *Handler) HandleValidateUnitary(w http.ResponseWriter, r *http.Request) {
	var req ValidateUnitaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"unitary":   algebra.IsUnitaryMatrix(req.Matrix.toMatrix(), h.eps),
			"tolerance": h.eps,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// writeState responds with the post-operation probabilities
func (h *Handler) writeState(w http.ResponseWriter) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"num_qubits":        h.session.NumQubits(),
			"total_probability": h.session.TotalProbability(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	h.writeJSON(w, http.StatusOK, response)
}

// writeOperationError maps catalog faults to 422 and everything else to 400
func (h *Handler) writeOperationError(w http.ResponseWriter, err error) {
	var f *faults.Fault
	if errors.As(err, &f) {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": map[string]interface{}{
				"code":     f.Kind.ExitCode(),
				"message":  f.Kind.Message(),
				"function": f.Fn,
			},
		})
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
