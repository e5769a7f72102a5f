package util

// Assert panics with the msg if the condition is false. Used to reject invalid configuration when an estimator is built.
func Assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
