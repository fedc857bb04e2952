// Package browser drives a Chromium tab through the DevTools protocol with
// go-rod.
//
// A Session owns one browser process (or a connection to a running one) and
// one tab. It implements collector.Automation for walking a listing and
// pipeline.Renderer for printing article pages, so both commands share the
// same logged-in tab.
//
// Starting a Session downloads a Chromium build on first use when no
// executable is configured and none is installed.
package browser
