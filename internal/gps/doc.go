// Package gps records GNSS receiver output as a track log.
//
// It is intentionally small:
// - Parse RMC for time/date/lat/lon and GGA for altitude from NMEA receivers
// - Or read TPV reports from gpsd
// - Emit one track sample per second of fix
package gps
