package v1

import (
	"log/slog"
	"net/http"

	"github.com/stacklok/media-readiness-server/internal/api/common"
	"github.com/stacklok/media-readiness-server/internal/store"
)

// listWebhooks handles GET /api/v1/webhooks
func (routes *Routes) listWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := routes.store.ListWebhooks(r.Context())
	if err != nil {
		common.WriteStoreError(w, err, "list webhooks")
		return
	}
	if webhooks == nil {
		webhooks = []store.Webhook{}
	}
	common.WriteJSONResponse(w, WebhookListResponse{Webhooks: webhooks, Count: len(webhooks)}, http.StatusOK)
}

// createWebhook handles POST /api/v1/webhooks
func (routes *Routes) createWebhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := routes.store.CreateWebhook(r.Context(), req.toWebhook())
	if err != nil {
		common.WriteStoreError(w, err, "create webhook")
		return
	}

	slog.Info("Webhook created", "webhook_id", created.ID, "name", created.Name, "type", created.Type)
	common.WriteJSONResponse(w, created, http.StatusCreated)
}

// getWebhook handles GET /api/v1/webhooks/{webhookID}
func (routes *Routes) getWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetAndValidateURLParam(r, "webhookID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	webhook, err := routes.store.GetWebhook(r.Context(), id)
	if err != nil {
		common.WriteStoreError(w, err, "get webhook")
		return
	}
	common.WriteJSONResponse(w, webhook, http.StatusOK)
}

// updateWebhook handles PUT /api/v1/webhooks/{webhookID}
func (routes *Routes) updateWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetAndValidateURLParam(r, "webhookID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req WebhookRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	webhook := req.toWebhook()
	webhook.ID = id
	updated, err := routes.store.UpdateWebhook(r.Context(), webhook)
	if err != nil {
		common.WriteStoreError(w, err, "update webhook")
		return
	}

	slog.Info("Webhook updated", "webhook_id", updated.ID, "enabled", updated.Enabled)
	common.WriteJSONResponse(w, updated, http.StatusOK)
}

// deleteWebhook handles DELETE /api/v1/webhooks/{webhookID}
func (routes *Routes) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetAndValidateURLParam(r, "webhookID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := routes.store.DeleteWebhook(r.Context(), id); err != nil {
		common.WriteStoreError(w, err, "delete webhook")
		return
	}

	slog.Info("Webhook deleted", "webhook_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// testWebhook handles POST /api/v1/webhooks/{webhookID}/test.
// A failed delivery is reported as 502 with the delivery error.
func (routes *Routes) testWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetAndValidateURLParam(r, "webhookID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	webhook, err := routes.store.GetWebhook(r.Context(), id)
	if err != nil {
		common.WriteStoreError(w, err, "get webhook")
		return
	}

	if err := routes.dispatcher.SendTest(r.Context(), *webhook); err != nil {
		slog.Warn("Test delivery failed", "webhook_id", id, "error", err)
		common.WriteJSONResponse(w, WebhookTestResponse{Delivered: false, Error: err.Error()}, http.StatusBadGateway)
		return
	}

	common.WriteJSONResponse(w, WebhookTestResponse{Delivered: true}, http.StatusOK)
}
