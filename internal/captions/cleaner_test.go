package captions

import "testing"

func TestCleanCollapsesRollingCaptions(t *testing.T) {
	raw := "WEBVTT\nKind: captions\nLanguage: en\n\n" +
		"00:00:00.000 --> 00:00:02.000\nHello world\n\n" +
		"00:00:02.000 --> 00:00:04.000\nHello world\n\n" +
		"00:00:04.000 --> 00:00:06.000\nHello world\n"
	if got := Clean(raw); got != "Hello world" {
		t.Fatalf("Clean = %q, want %q", got, "Hello world")
	}
}

func TestCleanStripsMarkup(t *testing.T) {
	raw := "WEBVTT\n\n1\n00:00:01.000 --> 00:00:03.500 align:start position:0%\n" +
		"<c.colorE5E5E5>so</c><00:00:01.500><c> today</c> {\\an8}we\n\n" +
		"2\n00:00:03.500 --> 00:00:05.000\n[Music]\n"
	want := "so today we [Music]"
	if got := Clean(raw); got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}

func TestCleanKeepsNonConsecutiveRepeats(t *testing.T) {
	raw := "yes\nno\nyes\n"
	if got := Clean(raw); got != "yes no yes" {
		t.Fatalf("Clean = %q", got)
	}
}

func TestCleanHandlesCRLF(t *testing.T) {
	raw := "WEBVTT\r\n\r\n00:00:00.000 --> 00:00:01.000\r\nfirst\r\n\r\n00:00:01.000 --> 00:00:02.000\r\nsecond\r\n"
	if got := Clean(raw); got != "first second" {
		t.Fatalf("Clean = %q", got)
	}
}

func TestCleanEmptyTrack(t *testing.T) {
	raw := "WEBVTT\nKind: captions\nLanguage: en\n\n00:00:00.000 --> 00:00:02.000\n\n42\n"
	if got := Clean(raw); got != "" {
		t.Fatalf("Clean = %q, want empty", got)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nWe grew 30% this year\n\n00:00:02.000 --> 00:00:04.000\n<b>really</b>\n",
		"already clean prose, with punctuation.",
		"",
	}
	for _, raw := range inputs {
		once := Clean(raw)
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean not idempotent: %q then %q", once, twice)
		}
	}
}
