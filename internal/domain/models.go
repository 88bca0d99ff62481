package domain

import "time"

// Enumerations
const (
	RoleAdmin  UserRole = "admin"
	RoleClient UserRole = "client"

	StagePending    StageStatus = "Pendiente"
	StageInProgress StageStatus = "En Proceso"
	StageCompleted  StageStatus = "Completada"
	StageCancelled  StageStatus = "Cancelada"

	StatusNew        ProcessStatus = "Nuevo"
	StatusPending    ProcessStatus = "Pendiente"
	StatusInProgress ProcessStatus = "En Proceso"
	StatusCompleted  ProcessStatus = "Completado"
	StatusCancelled  ProcessStatus = "Cancelado"

	ClaimOpen        ClaimStatus = "Abierto"
	ClaimUnderReview ClaimStatus = "En Revisión"
	ClaimResponded   ClaimStatus = "Respondido"
	ClaimClosed      ClaimStatus = "Cerrado"
)

type UserRole string
type StageStatus string
type ProcessStatus string
type ClaimStatus string

// Valid reports whether s is one of the four stage states.
func (s StageStatus) Valid() bool {
	switch s {
	case StagePending, StageInProgress, StageCompleted, StageCancelled:
		return true
	}
	return false
}

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimOpen, ClaimUnderReview, ClaimResponded, ClaimClosed:
		return true
	}
	return false
}

// Identity is the verified caller handed to every service operation.
type Identity struct {
	Username string
	Role     UserRole
}

type User struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"password"`
	Role         UserRole `json:"role"`
}

type Client struct {
	ID                  int64         `json:"id"`
	Name                string        `json:"nombre"`
	Email               string        `json:"email"`
	Phone               string        `json:"telefono"`
	Region              string        `json:"region"`
	Municipality        string        `json:"municipio"`
	Farm                string        `json:"finca"`
	ClientType          string        `json:"tipo_cliente"`
	DesiredEmbryos      int64         `json:"embriones_deseados"`
	AvailableRecipients int64         `json:"receptoras_disponibles"`
	Notes               string        `json:"observaciones"`
	ProcessStatus       ProcessStatus `json:"estado_proceso"`
}

type Stage struct {
	ID            int         `json:"id"`
	Name          string      `json:"nombre"`
	Status        StageStatus `json:"estado"`
	EstimatedDate string      `json:"fecha_estimada"`
	ActualDate    string      `json:"fecha_real"`
	StartDate     string      `json:"fecha_inicio,omitempty"`
	Notes         string      `json:"observaciones"`
}

type Process struct {
	ID            int64         `json:"id"`
	ClientID      int64         `json:"cliente_id"`
	Stages        []Stage       `json:"etapas"`
	ProcessStatus ProcessStatus `json:"estado_proceso"`
	ManualStatus  string        `json:"estado_global_manual"`
}

type Claim struct {
	ID          int64       `json:"id"`
	ClientID    int64       `json:"cliente_id"`
	Subject     string      `json:"asunto"`
	Reason      string      `json:"motivo"`
	Status      ClaimStatus `json:"estado"`
	CreatedAt   time.Time   `json:"fecha_creacion"`
	Responsible string      `json:"responsable"`
	Notes       string      `json:"observaciones"`
	Response    string      `json:"respuesta"`
}

type Donor struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"cliente_id"`
	Code     string `json:"codigo"`
	Breed    string `json:"raza"`
	Age      int64  `json:"edad"`
	History  string `json:"historial"`
}

type Recipient struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"cliente_id"`
	Code     string `json:"codigo"`
	Notes    string `json:"observaciones"`
}

// RecordID and OwnerID let the generic collection helpers and the access
// scoper treat every client-owned entity the same way.

func (c Client) RecordID() int64    { return c.ID }
func (p Process) RecordID() int64   { return p.ID }
func (c Claim) RecordID() int64     { return c.ID }
func (d Donor) RecordID() int64     { return d.ID }
func (r Recipient) RecordID() int64 { return r.ID }

// A client owns itself.
func (c Client) OwnerID() int64    { return c.ID }
func (p Process) OwnerID() int64   { return p.ClientID }
func (c Claim) OwnerID() int64     { return c.ClientID }
func (d Donor) OwnerID() int64     { return d.ClientID }
func (r Recipient) OwnerID() int64 { return r.ClientID }
