package prompt

const (
	headerIssueOpened  = "Implement feature from issue #%d: %s"
	headerCommentAdded = "Follow-up instructions from comment on issue #%d"

	// SectionRequirements heads the verbatim requirement list in rendered prompts.
	SectionRequirements = "Preserved Requirements"
	SectionSource       = "Source"
	SectionOriginal     = "Original Message"
)
