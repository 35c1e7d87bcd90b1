package webhook

// GitHub delivery headers.
const (
	HeaderSignature = "X-Hub-Signature-256"
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
)

const signaturePrefix = "sha256="

// GitHub caps webhook payloads at 25 MB.
const maxPayloadBytes = 25 << 20

// Reasons a well-formed delivery is ignored.
const (
	ReasonUnsupportedEventKind = "unsupported_event_kind"
	ReasonRepositoryMismatch   = "repository_mismatch"
	ReasonActorMismatch        = "actor_mismatch"
	ReasonActionNotAllowed     = "action_not_allowed"
)

// Response statuses and ignore kinds reported to GitHub.
const (
	StatusProcessed = "processed"
	StatusIgnored   = "ignored"

	IgnoredOutOfScope = "OutOfScope"
	IgnoredDuplicate  = "DuplicateEvent"

	RejectedMalformed = "MalformedPayload"

	SinkOK     = "ok"
	SinkFailed = "failed"
)
