package domain

// Zero wipes derived key material once a cipher has been built from it.
func Zero(b []byte) {
	clear(b)
}
