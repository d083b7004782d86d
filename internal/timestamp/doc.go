// Package timestamp parses ISO-8601 timestamps and normalizes them to UTC.
//
// Only three shapes are accepted:
//
//	YYYY-MM-DDTHH:MM:SSZ
//	YYYY-MM-DDTHH:MM:SS+HH:MM
//	YYYY-MM-DDTHH:MM:SS-HH:MM
//
// The offset is applied with real calendar arithmetic, so a normalized
// timestamp may land one year before 0000 or one year after 9999.
package timestamp
