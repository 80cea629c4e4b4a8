package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone Europe/London", timezone: "Europe/London", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	got, err := ParseDateInLocation("2024-03-04", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDateInLocation() = %v", got)
	}
	if _, err := ParseDateInLocation("04/03/2024", time.UTC); err == nil {
		t.Error("ParseDateInLocation() should reject non-ISO dates")
	}
}

func TestParseDateTimeInLocation(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "local form", value: "2024-03-04 09:30", want: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)},
		{name: "rfc3339", value: "2024-03-04T10:00:00+01:00", want: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)},
		{name: "surrounding spaces", value: "  2024-03-04 09:30 ", want: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)},
		{name: "garbage", value: "next tuesday", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTimeInLocation(tt.value, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateTimeInLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDateTimeInLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatSpan(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	if got := FormatSpan(start, start.Add(time.Hour), time.UTC); got != "09:00-10:00" {
		t.Errorf("FormatSpan() same day = %q", got)
	}
	if got := FormatSpan(start.Add(13*time.Hour), start.Add(17*time.Hour), time.UTC); got != "22:00-Tue 02:00" {
		t.Errorf("FormatSpan() overnight = %q", got)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("Local") || !ValidateTimezone("UTC") {
		t.Error("ValidateTimezone() rejected a valid zone")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("ValidateTimezone() accepted an invalid zone")
	}
}
