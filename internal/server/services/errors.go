package services

import "errors"

var (
	ErrDiscordNotConfigured = errors.New("discord sign-in is not configured")
	ErrUnsupportedDocument  = errors.New("only text documents can be summarized")
	ErrNothingToSummarize   = errors.New("nothing to summarize")
	ErrDocumentTooLarge     = errors.New("document is too large to summarize")
)
