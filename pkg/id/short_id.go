package id

import "github.com/teris-io/shortid"

func ShortId() string {
	v, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return v
}
