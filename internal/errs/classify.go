package errs

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Keyword sets matched against lower-cased error text, in priority order.
// The first matching category wins.
var (
	networkPatterns = []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no such host",
		"dns",
		"econnrefused",
		"econnreset",
		"enotfound",
		"network",
		"unreachable",
		"broken pipe",
	}

	timeoutPatterns = []string{
		"timeout",
		"timed out",
		"deadline exceeded",
	}

	processPatterns = []string{
		"sigterm",
		"sigkill",
		"sigint",
		"sigsegv",
		"signal:",
		"spawn",
		"exit code",
		"exit status",
		"executable file not found",
	}

	statePatterns = []string{
		"permission denied",
		"eacces",
		"no such file",
		"enoent",
		"corrupted",
		"state",
	}

	providerPatterns = []string{
		"rate limit",
		"quota",
		"unauthorized",
		"api",
		"provider",
	}
)

var (
	durationMsRe = regexp.MustCompile(`(\d+)\s*ms`)
	exitCodeRe   = regexp.MustCompile(`exit (?:code|status)\s+(\d+)`)
)

// Classify maps any raw failure to a typed Error. Already-typed errors are
// returned unchanged, making Classify idempotent.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	msg := strings.ToLower(err.Error())

	if matchesAny(msg, networkPatterns) {
		return Wrap(Network, "network failure", err)
	}

	if matchesAny(msg, timeoutPatterns) {
		e := Wrap(Timeout, "operation timed out", err)
		if m := durationMsRe.FindStringSubmatch(msg); m != nil {
			if ms, convErr := strconv.Atoi(m[1]); convErr == nil {
				e.Duration = time.Duration(ms) * time.Millisecond
			}
		}
		return e
	}

	if matchesAny(msg, processPatterns) {
		e := Wrap(Process, "provider process failure", err)
		if m := exitCodeRe.FindStringSubmatch(msg); m != nil {
			if code, convErr := strconv.Atoi(m[1]); convErr == nil {
				e.ExitCode = &code
			}
		}
		for _, sig := range []string{"sigterm", "sigkill", "sigint", "sigsegv"} {
			if strings.Contains(msg, sig) {
				e.Signal = strings.ToUpper(sig)
				break
			}
		}
		return e
	}

	if matchesAny(msg, statePatterns) {
		return Wrap(State, "state persistence failure", err)
	}

	if matchesAny(msg, providerPatterns) {
		return Wrap(Provider, "provider failure", err)
	}

	return Wrap(Unknown, "unexpected failure", err)
}

func matchesAny(msg string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
