package user

type Record struct {
	ID             int64
	Username       string
	PasswordDigest string
}
