package slot

import (
	"errors"
	"fmt"
	"net/http"

	dto "midnight_slots/internal/api/dto/slot"
	"midnight_slots/internal/converter"
	"midnight_slots/internal/model"
	"midnight_slots/internal/service"
	slotServ "midnight_slots/internal/service/slot"
	"midnight_slots/pkg/req"
	"midnight_slots/pkg/resp"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv     service.SlotService
	Revealer service.RevealService
	Log      *zap.Logger
}

type Handler struct {
	serv     service.SlotService
	revealer service.RevealService
	log      *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		serv:     deps.Serv,
		revealer: deps.Revealer,
		log:      log.Named("api"),
	}
}

// Spin рассчитывает спин целиком и отдаёт результат с расписанием показа
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	result, ok := h.spin(w, r)
	if !ok {
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}

// SpinStream тот же спин, но барабаны приходят server-sent событиями в своё время.
// Последнее событие result несёт итог целиком.
func (h *Handler) SpinStream(w http.ResponseWriter, r *http.Request) {
	result, ok := h.spin(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func(event string, data any) error {
		body, err := jsoniter.Marshal(data)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, body); err != nil {
			return err
		}
		return rc.Flush()
	}

	// Баланс уже рассчитан; обрыв клиента прерывает только показ
	err := h.revealer.Play(r.Context(), result.Reveals, func(rv model.ReelReveal) error {
		return send("reveal", converter.ToReveal(rv))
	})
	if err == nil {
		err = send("result", converter.ToSpinResponse(*result))
	}
	if err != nil {
		h.log.Debug("reveal stream closed", zap.Error(err))
	}
}

func (h *Handler) spin(w http.ResponseWriter, r *http.Request) (*model.SpinResult, bool) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "bad_request", err.Error())
		return nil, false
	}

	result, err := h.serv.Spin(r.Context(), converter.ToWagerInput(payload))
	switch {
	case err == nil:
		return result, true
	case errors.Is(err, slotServ.ErrSpinInProgress):
		// Спин уже идёт: ничего не происходит
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, slotServ.ErrInvalidWager):
		resp.WriteError(w, http.StatusUnprocessableEntity, "invalid_wager", slotServ.RejectMessage(err))
	case errors.Is(err, slotServ.ErrInsufficientBalance):
		resp.WriteError(w, http.StatusUnprocessableEntity, "insufficient_balance", slotServ.RejectMessage(err))
	case errors.Is(err, slotServ.ErrBalanceLimit):
		resp.WriteError(w, http.StatusUnprocessableEntity, "balance_limit", slotServ.RejectMessage(err))
	default:
		h.log.Error("spin failed", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "internal", "")
	}
	return nil, false
}

// State баланс и сообщение для первой отрисовки
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(h.serv.State(), h.serv.InitialReels(), h.revealer.Timing()))
}

func (h *Handler) MaxBet(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, dto.MaxBetResponse{MaxBet: h.serv.MaxBet()})
}

// Reset сброс баланса; подтверждение остаётся на клиенте
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	balance, err := h.serv.ResetBalance(r.Context())
	switch {
	case err == nil:
		resp.WriteJSONResponse(w, http.StatusOK, dto.ResetResponse{Balance: balance, Message: h.serv.State().Message})
	case errors.Is(err, slotServ.ErrSpinInProgress):
		resp.WriteError(w, http.StatusConflict, "spin_in_progress", "")
	default:
		h.log.Error("reset failed", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "internal", "")
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
