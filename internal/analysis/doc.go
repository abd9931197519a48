// Package analysis extracts orbital characteristics from recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a mean-removed signal
//   - [DominantPeriod]: period of the strongest spectral peak
//   - [Orbits]: apsides, eccentricity and period of every body about a reference
//
// Periods come from the spectrum of the x offset to the reference body, so
// their resolution is limited to record length divided by an integer.
package analysis
