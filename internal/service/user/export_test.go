package user

import (
	"context"

	"github.com/mwhitlock/taskhub/internal/store"
)

// SetTxRunnerForTest replaces the transaction runner so tests can exercise
// the deletion cascade without a real database.
func SetTxRunnerForTest(svc UserService, runner func(ctx context.Context, fn store.TxFn) error) {
	svc.(*service).runInTx = runner
}
