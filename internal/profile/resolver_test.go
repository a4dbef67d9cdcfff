package profile

import (
	"testing"

	"datasetgen/internal/domain"
)

func TestActiveProfile(t *testing.T) {
	tests := []struct {
		name   string
		mode   domain.ProfileMode
		auto   string
		manual string
		want   string
		wantOK bool
	}{
		{name: "auto present", mode: domain.ProfileModeAuto, auto: "HAIR: short black bob.", manual: "ignored", want: "HAIR: short black bob.", wantOK: true},
		{name: "auto absent", mode: domain.ProfileModeAuto, auto: "", manual: "manual text", wantOK: false},
		{name: "manual trimmed", mode: domain.ProfileModeManual, auto: "auto text", manual: "  tall, green eyes \n", want: "tall, green eyes", wantOK: true},
		{name: "manual whitespace only", mode: domain.ProfileModeManual, auto: "auto text", manual: " \t\n ", wantOK: false},
		{name: "manual empty", mode: domain.ProfileModeManual, wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ActiveProfile(tc.mode, tc.auto, tc.manual)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("profile = %q, want %q", got, tc.want)
			}
			if ready := IsReady(tc.mode, tc.auto, tc.manual); ready != tc.wantOK {
				t.Fatalf("IsReady = %v, want %v", ready, tc.wantOK)
			}
		})
	}
}
