package consts

const (
	TokenBlacklistKey = "token:blacklist:"
	StaleImageKey     = "media:stale"
)

const (
	LikeLock = "lock:like:"
)
