package config

// Merge returns base with every field that is set in override replaced.
// Neither argument is modified.
func Merge(base, override Settings) Settings {
	merged := base

	mergePtr(&merged.Timeout, override.Timeout)
	mergePtr(&merged.Threads, override.Threads)
	mergePtr(&merged.RetryAttempts, override.RetryAttempts)
	mergePtr(&merged.RetryDelay, override.RetryDelay)
	mergePtr(&merged.RateLimitDelay, override.RateLimitDelay)
	mergePtr(&merged.AllowTimeout, override.AllowTimeout)
	mergeSlice(&merged.Allowlist, override.Allowlist)
	mergeSlice(&merged.AllowedStatusCodes, override.AllowedStatusCodes)
	mergeSlice(&merged.ExcludePatterns, override.ExcludePatterns)
	mergePtr(&merged.FailureThreshold, override.FailureThreshold)
	mergeSlice(&merged.FileTypes, override.FileTypes)
	mergePtr(&merged.UseHeadRequests, override.UseHeadRequests)
	mergePtr(&merged.Proxy, override.Proxy)
	mergePtr(&merged.UserAgent, override.UserAgent)
	mergePtr(&merged.SkipSSLVerification, override.SkipSSLVerification)
	mergePtr(&merged.RespectRobots, override.RespectRobots)
	mergePtr(&merged.OutputFormat, override.OutputFormat)
	mergePtr(&merged.Verbose, override.Verbose)
	mergePtr(&merged.LogFile, override.LogFile)

	return merged
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// A nil slice is unset; an empty non-nil slice deliberately clears the base.
func mergeSlice[T any](dst *[]T, src []T) {
	if src != nil {
		*dst = append([]T{}, src...)
	}
}
