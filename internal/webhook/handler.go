package webhook

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aleqsd/github-codex-bot/internal/relay"
	pkgLog "github.com/Aleqsd/github-codex-bot/pkg/log"
	pkgResponse "github.com/Aleqsd/github-codex-bot/pkg/response"
)

// HandleGitHubWebhook godoc
// @Summary     Receive a GitHub webhook delivery
// @Description Verifies the delivery signature, keeps issue/comment events from the watched user and emits one prompt per logical event.
// @Tags        Webhook
// @Accept      json
// @Produce     json
// @Param       X-Hub-Signature-256 header string true  "sha256=<hex HMAC of the body>"
// @Param       X-GitHub-Event      header string true  "issues or issue_comment"
// @Param       X-GitHub-Delivery   header string false "Delivery id"
// @Success     200 {object} pkgResponse.Resp "processed or ignored"
// @Failure     400 {object} pkgResponse.Resp "Malformed payload"
// @Failure     401 {object} pkgResponse.Resp "Invalid signature"
// @Failure     403 {object} pkgResponse.Resp "Source IP not allowed"
// @Failure     429 {object} pkgResponse.Resp "Rate limit exceeded"
// @Failure     500 {object} pkgResponse.Resp "Internal Server Error"
// @Router      /github-webhook-codex [POST]
func (h *handler) HandleGitHubWebhook(c *gin.Context) {
	receivedAt := h.now()
	eventType := c.GetHeader(HeaderEvent)
	deliveryID := c.GetHeader(HeaderDelivery)
	ctx := pkgLog.WithFields(c.Request.Context(), "delivery_id", deliveryID, "event", eventType)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPayloadBytes))
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	clientIP := c.ClientIP()
	if err := h.security.ValidateIPAddress(clientIP); err != nil {
		h.l.Warnf(ctx, "Webhook rejected: %v", err)
		pkgResponse.Forbidden(c)
		return
	}

	if !h.security.Verify(body, c.GetHeader(HeaderSignature)) {
		h.l.Warn(ctx, "Invalid GitHub signature, rejecting request")
		pkgResponse.Unauthorized(c)
		return
	}

	if err := h.security.CheckRateLimit(clientIP); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	cls, err := h.classifier.Classify(ClassifyInput{
		EventType:  eventType,
		DeliveryID: deliveryID,
		Body:       body,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		h.l.Errorf(ctx, "Malformed webhook payload: %v; payload=%s", err, body)
		pkgResponse.Error(c, err, map[string]interface{}{"reason": RejectedMalformed})
		return
	}

	if !cls.InScope {
		h.l.Infof(ctx, "Ignored %s event (%s): %s", eventType, cls.Reason, cls.Detail)
		pkgResponse.OK(c, gin.H{
			"status": StatusIgnored,
			"reason": IgnoredOutOfScope,
			"detail": cls.Reason,
		})
		return
	}

	h.l.Infof(ctx, "Processing issue #%d from %s", cls.Event.IssueNumber, cls.Event.ActorLogin)

	out, err := h.relayUC.Relay(ctx, relay.RelayInput{Event: cls.Event})
	if err != nil {
		h.l.Errorf(ctx, "relayUC.Relay: %v", err)
		pkgResponse.InternalError(c, err)
		return
	}

	switch out.Status {
	case relay.StatusDuplicate:
		pkgResponse.OK(c, gin.H{
			"status": StatusIgnored,
			"reason": IgnoredDuplicate,
		})
	default:
		sinkStatus := SinkOK
		if out.SinkErr != nil {
			sinkStatus = SinkFailed
		}
		pkgResponse.OK(c, gin.H{
			"status":    StatusProcessed,
			"prompt_id": out.PromptID,
			"sink":      sinkStatus,
		})
	}
}
