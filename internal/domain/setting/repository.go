package setting

import "context"

type SettingRepository interface {
	// Get returns ErrSettingNotFound when the key was never set.
	Get(ctx context.Context, key string) (Setting, error)
	Set(ctx context.Context, s Setting) (Setting, error)
}
