package notify

import (
	"image"
	"os"
	"testing"

	"github.com/example/stipple/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) Sender {
	return func(title, body string, opts platform.Options) error {
		_, err := os.Stat(opts.IconPath)
		*out = append(*out, sent{title, body, opts, opts.IconPath != "" && err == nil})
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Render("rings", nil)
	n.Save("out.png")
	n.Copy("")
	if len(got) != 0 {
		t.Fatalf("sent %d notifications while disabled", len(got))
	}
	var nilNotifier *Notifier
	nilNotifier.Enable(EventSave, true)
	nilNotifier.Save("x")
	if nilNotifier.Enabled(EventSave) {
		t.Fatal("nil notifier reports enabled")
	}
}

func TestRenderPreviewIsCleanedUp(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventRender, true)
	n.Render("phyllotaxis", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(got) != 1 {
		t.Fatalf("sent %d notifications", len(got))
	}
	if got[0].title != "Stipple" || got[0].body != "Rendered phyllotaxis" {
		t.Fatalf("unexpected notification %+v", got[0])
	}
	if !got[0].iconExisted {
		t.Fatal("preview icon missing while notifying")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview %s not removed", got[0].opts.IconPath)
	}
}

func TestCopyDefaultsDetail(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventCopy, true)
	n.Copy("  ")
	if len(got) != 1 || got[0].body != "Copied image to clipboard" {
		t.Fatalf("unexpected notifications %+v", got)
	}
	if !got[0].iconExisted {
		t.Fatalf("copy notification should carry the app icon, got %q", got[0].opts.IconPath)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("STIPPLE_NOTIFY_TITLE", "Dots")
	t.Setenv("STIPPLE_NOTIFY_SAVE_TEXT", "Wrote %s")
	t.Setenv("STIPPLE_NOTIFY_COPY_TEXT", "On the clipboard")
	prefs := LoadPreferences()
	if prefs.Title != "Dots" {
		t.Fatalf("title %q", prefs.Title)
	}
	var got []sent
	n := New(prefs).WithSender(recorder(&got))
	n.Enable(EventSave, true)
	n.Enable(EventCopy, true)
	n.Save("/tmp/none.png")
	n.Copy("seed")
	if len(got) != 2 {
		t.Fatalf("sent %d notifications", len(got))
	}
	if got[0].body != "Wrote /tmp/none.png" || got[0].opts.IconPath != appIconPath() {
		t.Fatalf("save notification %+v", got[0])
	}
	if got[1].body != "On the clipboard" {
		t.Fatalf("copy notification %+v", got[1])
	}
	if prefs.Events[EventRender].Template != "Rendered %s" {
		t.Fatal("render template should keep its default")
	}
}
