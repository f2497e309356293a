package services

import (
	"net"
	"strings"

	"weatherly/internal/domain"
	"weatherly/internal/ports"
)

// Intent is a user action fed to the Coordinator.
type Intent interface {
	intent()
}

// Input is a keystroke in the search box carrying the full new text.
type Input struct {
	Text string
}

// Choose selects the suggestion at Index.
type Choose struct {
	Index int
}

// ChoosePlace selects a place directly, bypassing the suggestion list.
type ChoosePlace struct {
	Place domain.PlaceRecord
}

// Locate asks Source for the device position and selects the place found
// there. Origin describes the page the request came from.
type Locate struct {
	Origin Origin
	Source ports.Locator
}

// SetUnits switches the unit system of the forecast.
type SetUnits struct {
	Units domain.Units
}

func (Input) intent()       {}
func (Choose) intent()      {}
func (ChoosePlace) intent() {}
func (Locate) intent()      {}
func (SetUnits) intent()    {}

// Origin is the page context a geolocation request is issued from.
type Origin struct {
	Secure bool
	Host   string
}

// AllowsGeolocation reports whether the origin may query the device
// position: a secure context or a loopback host.
func (o Origin) AllowsGeolocation() bool {
	return o.Secure || IsLoopbackHost(o.Host)
}

// IsLoopbackHost accepts "localhost", any "*.localhost" name, 127.0.0.0/8
// and ::1, with or without a port.
func IsLoopbackHost(host string) bool {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	host = strings.ToLower(host)

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
