package worker

// Sync resolves the chain against every known peer.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	replaced, err := w.state.Resolve(w.ctx)
	if err != nil {
		w.evHandler("worker: sync: resolve: ERROR: %s", err)
		return
	}

	if replaced {
		w.evHandler("worker: sync: chain replaced: length[%d]", w.state.QueryChainLength())
	}
}
