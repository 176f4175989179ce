package fat32

import "time"

// DecodeTimestamp converts a packed FAT date/time pair to a UTC instant.
//
// FAT date: bits 9-15 year since 1980, bits 5-8 month, bits 0-4 day.
// FAT time: bits 11-15 hour, bits 5-10 minute, bits 0-4 two-second units.
//
// A date of zero, a month of 0 or >12, or a day of 0 or >31 decodes to nil;
// such values are common in partially overwritten directory remnants.
func DecodeTimestamp(date, timeOfDay uint16) *time.Time {
	if date == 0 {
		return nil
	}

	year := int((date>>9)&0x7F) + 1980
	month := int((date >> 5) & 0x0F)
	day := int(date & 0x1F)

	if month == 0 || month > 12 || day == 0 || day > 31 {
		return nil
	}

	hour := int((timeOfDay >> 11) & 0x1F)
	minute := int((timeOfDay >> 5) & 0x3F)
	second := int(timeOfDay&0x1F) * 2

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return &t
}

// EncodeTimestamp packs an instant into the FAT date/time representation,
// discarding sub-two-second precision. Used by tests and fixture tooling.
func EncodeTimestamp(t time.Time) (date, timeOfDay uint16) {
	date = uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	timeOfDay = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, timeOfDay
}
