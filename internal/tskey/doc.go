// Package tskey packs calendar fields into a single composite key.
//
// Layout, most significant field first:
//
//	bits 22+     month
//	bits 17..21  day    (5 bits)
//	bits 12..16  hour   (5 bits)
//	bits  6..11  minute (6 bits)
//	bits  0..5   second (6 bits)
//
// Encode does not validate its inputs. A field wider than its slot spills
// into the next field up (a day of 32 adds one to the month), so callers
// must normalize timestamps before encoding.
package tskey
