//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Building is a site that contains floors.
type Building struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Image  string  `json:"image,omitempty"`
	Floors []Floor `json:"floors,omitempty"`
}

// Floor is a level of a building with a floor-plan image and room groups.
type Floor struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	BuildingName string          `json:"buildingName,omitempty"`
	RoomGroups   []RoomGroupInfo `json:"roomGroups,omitempty"`
	// DefaultRoomGroup is only populated by the single-floor endpoint.
	DefaultRoomGroup *RoomGroupInfo `json:"defaultRoomGroup,omitempty"`
}

// RoomGroupInfo identifies a room group and its display color (24-bit RGB).
type RoomGroupInfo struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Color int    `json:"color"`
}

// RoomGroup is a room group together with its rooms.
type RoomGroup struct {
	RoomGroupInfo
	Rooms []Room `json:"rooms"`
}

// Coordinate is a vertex of a room polygon in floor-plan space.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Room is a polygon on a floor plan guarded by credential requirements.
type Room struct {
	ID                  int64                    `json:"id"`
	Name                string                   `json:"name"`
	Description         string                   `json:"description"`
	Vertices            []Coordinate             `json:"vertices"`
	RequiredCredentials []CredentialORConnection `json:"requiredCredentials,omitempty"`
	Doors               []string                 `json:"doors,omitempty"`
	GroupInfo           *RoomGroupInfo           `json:"groupInfo,omitempty"`
	FloorID             int64                    `json:"floorId,omitempty"`
}

// RoomCreation carries the fields needed to create a room inside a group.
type RoomCreation struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Vertices    []Coordinate `json:"vertices"`
}

// RoomUpdate is a partial update; nil fields are left unchanged by the backend.
type RoomUpdate struct {
	Name                *string                  `json:"name,omitempty"`
	Description         *string                  `json:"description,omitempty"`
	Vertices            []Coordinate             `json:"vertices,omitempty"`
	Doors               []string                 `json:"doors,omitempty"`
	RequiredCredentials []CredentialORConnection `json:"requiredCredentials,omitempty"`
	RoomGroupID         *int64                   `json:"roomGroupId,omitempty"`
}
