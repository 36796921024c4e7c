package nats_common

import (
	"strings"

	"github.com/ZanzyTHEbar/spendr-go/interfaces"
	"github.com/ZanzyTHEbar/spendr-go/internal"
	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is prepended to every ledger event subject.
const DefaultSubjectPrefix = "spendr"

type NATSConfig struct {
	ServerURL     string
	SubjectPrefix string
	ClientID      string
	Username      string
	Password      string
	Token         string
}

// Subject returns the subject an event of eventType is published on.
func Subject(prefix string, eventType interfaces.EventType) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}

// MatchSubject returns whether a subject matches a pattern with wildcard support.
// "*" matches exactly one token and a trailing ">" matches one or more tokens.
func MatchSubject(pattern, subject string) bool {
	if pattern == subject {
		return true
	}

	patternTokens := strings.Split(pattern, ".")
	subjectTokens := strings.Split(subject, ".")

	for i, token := range patternTokens {
		if token == ">" {
			return i == len(patternTokens)-1 && len(subjectTokens) > i
		}
		if i >= len(subjectTokens) {
			return false
		}
		if token != "*" && token != subjectTokens[i] {
			return false
		}
	}

	return len(patternTokens) == len(subjectTokens)
}

// ApplyNATSAuthOptions picks user/password over token authentication.
func ApplyNATSAuthOptions(username, password, token string) []nats.Option {
	opts := []nats.Option{}
	logger := internal.GetLogger()
	if username != "" && password != "" {
		opts = append(opts, nats.UserInfo(username, password))
		logger.Info(internal.ComponentNATS, "Using username/password authentication for NATS")
	} else if token != "" {
		opts = append(opts, nats.Token(token))
		logger.Info(internal.ComponentNATS, "Using token authentication for NATS")
	} else {
		logger.Debug(internal.ComponentNATS, "No authentication provided for NATS connection")
	}
	return opts
}
