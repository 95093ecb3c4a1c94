package engine

// Observer is notified as a run progresses. Implementations must be cheap; they
// run inline with row processing.
type Observer interface {
	RunStarted(procedure Procedure, loaded int)
	RowProcessed(procedure Procedure, result RowResult)
	RunFinished(report *Report)
}

// observers fans out to several observers.
type observers []Observer

func (o observers) RunStarted(procedure Procedure, loaded int) {
	for _, obs := range o {
		obs.RunStarted(procedure, loaded)
	}
}

func (o observers) RowProcessed(procedure Procedure, result RowResult) {
	for _, obs := range o {
		obs.RowProcessed(procedure, result)
	}
}

func (o observers) RunFinished(report *Report) {
	for _, obs := range o {
		obs.RunFinished(report)
	}
}
