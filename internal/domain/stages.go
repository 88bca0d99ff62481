package domain

// StageCount is the fixed length of every process pipeline.
const StageCount = 12

var stageNames = [StageCount]string{
	"Sincronización hormonal",
	"Aspiración de ovocitos",
	"Transporte al laboratorio",
	"Maduración de ovocitos",
	"Fertilización in vitro",
	"Cultivo e incubación",
	"Evaluación de embriones",
	"Preparación de transporte",
	"Transporte de embriones",
	"Transferencia a receptoras",
	"Ecografía día 45",
	"Ecografía día 90",
}

// NewStageTemplate returns the twelve pending stages a new process starts with.
func NewStageTemplate() []Stage {
	stages := make([]Stage, StageCount)
	for i, name := range stageNames {
		stages[i] = Stage{ID: i + 1, Name: name, Status: StagePending}
	}
	return stages
}
