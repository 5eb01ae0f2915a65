package langdetect

import (
	"testing"

	"horse.fit/polyglot/internal/locale"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want locale.Locale
	}{
		{name: "english", text: "The city council approved the new flood defence budget on Tuesday after a long debate.", want: locale.English},
		{name: "thai", text: "คณะรัฐมนตรีอนุมัติงบประมาณป้องกันน้ำท่วมในกรุงเทพมหานครเมื่อวันอังคารที่ผ่านมา", want: locale.Thai},
		{name: "japanese", text: "東京都は火曜日、新しい洪水対策の予算を承認しました。市民の安全を守るための措置です。", want: locale.Japanese},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Detect(tc.text)
			if !ok {
				t.Fatalf("expected confident detection for %q", tc.text)
			}
			if got != tc.want {
				t.Fatalf("Detect() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectShortSample(t *testing.T) {
	t.Parallel()

	if _, ok := Detect("ok"); ok {
		t.Fatalf("expected short samples to be undetermined")
	}
	if _, ok := Detect("   "); ok {
		t.Fatalf("expected blank samples to be undetermined")
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	english := "The city council approved the new flood defence budget on Tuesday after a long debate."
	if !Matches(english, locale.English) {
		t.Fatalf("expected english body to match en")
	}
	if Matches(english, locale.Thai) {
		t.Fatalf("did not expect english body to match th")
	}
	if !Matches("hi", locale.Thai) {
		t.Fatalf("expected undeterminable samples to pass")
	}
}
