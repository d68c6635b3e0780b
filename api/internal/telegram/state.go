package telegram

import (
	"aidvision/api/internal/checker"
)

// formFor returns the chat's form, creating it on first use.
// A photo is attached to the next submission only, then dropped.
func (r *Router) formFor(chatID int64) *checker.Form {
	if v, ok := r.forms.Load(chatID); ok {
		return v.(*checker.Form)
	}
	f := checker.New(r.Gen,
		checker.WithLogger(r.logger().With("chat_id", chatID)),
		checker.WithMaxImageBytes(r.MaxImageBytes),
		checker.WithSingleUsePhoto(),
		checker.WithNotifier(func(n checker.Notice) { r.sendNotice(chatID, n) }),
	)
	v, _ := r.forms.LoadOrStore(chatID, f)
	return v.(*checker.Form)
}
