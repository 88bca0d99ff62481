package domain

// StageStatusOf derives a process status from its stages. The checks run in
// order and the first match wins: any stage in progress, all completed, any
// cancelled, otherwise pending.
func StageStatusOf(stages []Stage) ProcessStatus {
	if anyStage(stages, StageInProgress) {
		return StatusInProgress
	}
	if allStages(stages, StageCompleted) {
		return StatusCompleted
	}
	if anyStage(stages, StageCancelled) {
		return StatusCancelled
	}
	return StatusPending
}

// ClientStatusOf derives a client status from the stages of every process the
// client owns. A client without processes is StatusNew.
func ClientStatusOf(clientID int64, processes []Process) ProcessStatus {
	var statuses []ProcessStatus
	for _, p := range processes {
		if p.ClientID == clientID {
			statuses = append(statuses, StageStatusOf(p.Stages))
		}
	}
	if len(statuses) == 0 {
		return StatusNew
	}
	if anyStatus(statuses, StatusInProgress) {
		return StatusInProgress
	}
	if allStatuses(statuses, StatusCompleted) {
		return StatusCompleted
	}
	if anyStatus(statuses, StatusCancelled) {
		return StatusCancelled
	}
	return StatusPending
}

// RefreshClientStatus recomputes the cached status of the client with the
// given id. It reports false when no such client exists.
func RefreshClientStatus(clients []Client, processes []Process, clientID int64) bool {
	for i := range clients {
		if clients[i].ID == clientID {
			clients[i].ProcessStatus = ClientStatusOf(clientID, processes)
			return true
		}
	}
	return false
}

func anyStage(stages []Stage, want StageStatus) bool {
	for _, s := range stages {
		if s.Status == want {
			return true
		}
	}
	return false
}

// allStages is vacuously true for an empty slice.
func allStages(stages []Stage, want StageStatus) bool {
	for _, s := range stages {
		if s.Status != want {
			return false
		}
	}
	return true
}

func anyStatus(statuses []ProcessStatus, want ProcessStatus) bool {
	for _, s := range statuses {
		if s == want {
			return true
		}
	}
	return false
}

func allStatuses(statuses []ProcessStatus, want ProcessStatus) bool {
	for _, s := range statuses {
		if s != want {
			return false
		}
	}
	return true
}
