package validator

import "regexp"

const octet = `(?:[0-9]{1,2}|1[0-9]{2}|2[0-4][0-9]|25[0-5])`

var (
	// Private and link-local ranges: 10/8, 172.16/12, 192.168/16, 169.254/16.
	ipv4PrivateRegex = regexp.MustCompile(`^(?:` +
		`10(?:\.` + octet + `){3}` +
		`|172\.(?:1[6-9]|2[0-9]|3[01])(?:\.` + octet + `){2}` +
		`|192\.168(?:\.` + octet + `){2}` +
		`|169\.254(?:\.` + octet + `){2}` +
		`)$`)

	// Any dotted quad; private ranges match too.
	ipv4PublicRegex = regexp.MustCompile(`^` + octet + `(?:\.` + octet + `){3}$`)

	// Full eight-group form only; "::" compression is not accepted.
	ipv6Regex = regexp.MustCompile(`(?i)^(?:[a-f0-9]{1,4}:){7}[a-f0-9]{1,4}$`)
)

func isIPv4Private(value any) bool { return matchText(ipv4PrivateRegex, value) }
func isIPv4Public(value any) bool  { return matchText(ipv4PublicRegex, value) }
func isIPv6(value any) bool        { return matchText(ipv6Regex, value) }

func isIPv4(value any) bool {
	return isIPv4Private(value) || isIPv4Public(value)
}

func isIP(value any) bool {
	return isIPv4(value) || isIPv6(value)
}
