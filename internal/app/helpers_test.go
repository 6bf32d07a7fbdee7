package app

import "github.com/sethvargo/go-envconfig"

func envconfigMap(m map[string]string) envconfig.Lookuper {
	return envconfig.MapLookuper(m)
}
