package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Action hooks
	a := NoopActionHooks{}
	a.OnPerform(ctx, "cut", "key", time.Millisecond, true, "")

	// Upload hooks
	u := NoopUploadHooks{}
	u.OnAttempt(ctx, 1, "image")
	u.OnAttemptFailed(ctx, 1, "image", errors.New("boom"))
	u.OnUploadComplete(ctx, 3, time.Second, nil)

	// Stylize hooks
	s := NoopStylizeHooks{}
	s.OnTransition(ctx, "idle", "exporting")
	s.OnComplete(ctx, "done", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "upload")
	c.OnCacheMiss(ctx, "upload")
	c.OnCacheSet(ctx, "upload", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "image.netwrck.com", "/style_transfer_bytes_and_upload_image")
	h.OnResponse(ctx, "POST", "image.netwrck.com", "/style_transfer_bytes_and_upload_image", 200, time.Second)
	h.OnError(ctx, "POST", "image.netwrck.com", "/style_transfer_bytes_and_upload_image", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Action().(NoopActionHooks); !ok {
		t.Error("Action() should return NoopActionHooks by default")
	}
	if _, ok := Upload().(NoopUploadHooks); !ok {
		t.Error("Upload() should return NoopUploadHooks by default")
	}
	if _, ok := Stylize().(NoopStylizeHooks); !ok {
		t.Error("Stylize() should return NoopStylizeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customAction := &testActionHooks{}
	SetActionHooks(customAction)
	if Action() != customAction {
		t.Error("SetActionHooks should set custom hooks")
	}

	customUpload := &testUploadHooks{}
	SetUploadHooks(customUpload)
	if Upload() != customUpload {
		t.Error("SetUploadHooks should set custom hooks")
	}

	customStylize := &testStylizeHooks{}
	SetStylizeHooks(customStylize)
	if Stylize() != customStylize {
		t.Error("SetStylizeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Upload().(NoopUploadHooks); !ok {
		t.Error("Reset() should restore NoopUploadHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testUploadHooks{}
	SetUploadHooks(custom)

	// Setting nil should be ignored
	SetUploadHooks(nil)

	if Upload() != custom {
		t.Error("SetUploadHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testActionHooks struct{ NoopActionHooks }
type testUploadHooks struct{ NoopUploadHooks }
type testStylizeHooks struct{ NoopStylizeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
