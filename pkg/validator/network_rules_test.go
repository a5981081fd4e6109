package validator_test

import "testing"

func TestIPv4Private(t *testing.T) {
	t.Parallel()

	runCases(t, "ipv4Private", []ruleCase{
		{name: "10/8", value: "10.0.0.1", want: true},
		{name: "172.16/12 low", value: "172.16.5.4", want: true},
		{name: "172.16/12 high", value: "172.31.255.255", want: true},
		{name: "192.168/16", value: "192.168.1.1", want: true},
		{name: "link local", value: "169.254.10.20", want: true},
		{name: "outside 172.16/12", value: "172.32.0.1", want: false},
		{name: "public", value: "8.8.8.8", want: false},
		{name: "prefix must be anchored", value: "110.0.0.1", want: false},
		{name: "octet out of range", value: "10.0.0.256", want: false},
		{name: "trailing text", value: "10.0.0.1x", want: false},
	})
}

func TestIPv4Public(t *testing.T) {
	t.Parallel()

	runCases(t, "ipv4Public", []ruleCase{
		{name: "public", value: "8.8.8.8", want: true},
		{name: "private ranges match too", value: "10.0.0.1", want: true},
		{name: "octet out of range", value: "256.1.1.1", want: false},
		{name: "three octets", value: "1.2.3", want: false},
		{name: "number", value: 8888, want: false},
	})
}

func TestIPv4(t *testing.T) {
	t.Parallel()

	runCases(t, "ipv4", []ruleCase{
		{name: "public", value: "1.1.1.1", want: true},
		{name: "private", value: "192.168.0.10", want: true},
		{name: "ipv6", value: "2001:db8:0:0:0:0:0:1", want: false},
	})
}

func TestIPv6(t *testing.T) {
	t.Parallel()

	runCases(t, "ipv6", []ruleCase{
		{name: "full form", value: "2001:0db8:85a3:0000:0000:8a2e:0370:7334", want: true},
		{name: "upper case", value: "2001:DB8:0:0:0:0:0:1", want: true},
		{name: "compressed", value: "::1", want: false},
		{name: "seven groups", value: "2001:db8:0:0:0:0:1", want: false},
		{name: "ipv4", value: "10.0.0.1", want: false},
	})
}

func TestIP(t *testing.T) {
	t.Parallel()

	runCases(t, "ip", []ruleCase{
		{name: "ipv4", value: "8.8.4.4", want: true},
		{name: "ipv6", value: "fe80:0:0:0:202:b3ff:fe1e:8329", want: true},
		{name: "neither", value: "example.com", want: false},
		{name: "nil", value: nil, want: false},
	})
}
