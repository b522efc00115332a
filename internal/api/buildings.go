package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gpse/sesam-client/internal/domain/model"
)

// Buildings returns every building.
func (c *Client) Buildings(ctx context.Context) ([]model.Building, error) {
	var out []model.Building
	err := c.call(ctx, request{op: "buildings", method: http.MethodGet, path: "/api/buildings"}, &out)
	return out, err
}

// Building returns one building.
func (c *Client) Building(ctx context.Context, id int64) (model.Building, error) {
	var out model.Building
	err := c.call(ctx, request{op: "building", method: http.MethodGet, path: idPath("/api/buildings/%d", id)}, &out)
	return out, err
}

// AddBuilding creates a building with a picture.
func (c *Client) AddBuilding(ctx context.Context, name string, image Upload) (model.Building, error) {
	var out model.Building
	err := c.call(ctx, request{
		op:     "add building",
		method: http.MethodPost,
		path:   "/api/buildings",
		parts:  map[string]string{"name": name},
		files:  map[string]Upload{"image": image},
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &out)
	return out, err
}

// DeleteBuilding removes a building and its floors.
func (c *Client) DeleteBuilding(ctx context.Context, id int64) error {
	return c.call(ctx, request{op: "delete building", method: http.MethodDelete, path: idPath("/api/deleteBuildings/%d", id)}, nil)
}

// BuildingFloors returns the floors of a building.
func (c *Client) BuildingFloors(ctx context.Context, buildingID int64) ([]model.Floor, error) {
	var out []model.Floor
	err := c.call(ctx, request{op: "building floors", method: http.MethodGet, path: idPath("/api/buildings/%d/floors", buildingID)}, &out)
	return out, err
}

// Floor returns one floor including its default room group.
func (c *Client) Floor(ctx context.Context, id int64) (model.Floor, error) {
	var out model.Floor
	err := c.call(ctx, request{op: "floor", method: http.MethodGet, path: idPath("/api/floors/%d", id)}, &out)
	return out, err
}

// AddFloor creates a floor with a floor-plan image in a building.
func (c *Client) AddFloor(ctx context.Context, buildingID int64, name string, image Upload) (model.Floor, error) {
	var out model.Floor
	err := c.call(ctx, request{
		op:     "add floor",
		method: http.MethodPost,
		path:   idPath("/api/buildings/%d/floors", buildingID),
		parts:  map[string]string{"name": name},
		files:  map[string]Upload{"image": image},
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &out)
	return out, err
}

// UpdateFloorName renames a floor.
func (c *Client) UpdateFloorName(ctx context.Context, id int64, name string) error {
	return c.call(ctx, request{
		op:     "update floor name",
		method: http.MethodPut,
		path:   idPath("/api/floors/%d/name", id),
		parts:  map[string]string{"name": name},
	}, nil)
}

// UpdateFloorImage replaces the floor-plan image.
func (c *Client) UpdateFloorImage(ctx context.Context, id int64, image Upload) error {
	return c.call(ctx, request{
		op:     "update floor image",
		method: http.MethodPut,
		path:   idPath("/api/floors/%d/image", id),
		files:  map[string]Upload{"image": image},
	}, nil)
}

// UpdateFloorNameImage renames a floor and replaces its image in one request.
func (c *Client) UpdateFloorNameImage(ctx context.Context, id int64, name string, image Upload) error {
	return c.call(ctx, request{
		op:     "update floor name and image",
		method: http.MethodPut,
		path:   idPath("/api/floors/%d/nameImage", id),
		parts:  map[string]string{"name": name},
		files:  map[string]Upload{"image": image},
	}, nil)
}

// DeleteFloor removes a floor.
func (c *Client) DeleteFloor(ctx context.Context, id int64) error {
	return c.call(ctx, request{op: "delete floor", method: http.MethodDelete, path: idPath("/api/deleteFloors/%d", id)}, nil)
}

// RoomGroups returns the room groups of a floor without their rooms.
func (c *Client) RoomGroups(ctx context.Context, floorID int64) ([]model.RoomGroupInfo, error) {
	var out []model.RoomGroupInfo
	err := c.call(ctx, request{op: "room groups", method: http.MethodGet, path: idPath("/api/floors/%d/roomGroups", floorID)}, &out)
	return out, err
}

// Rooms returns every room on a floor.
func (c *Client) Rooms(ctx context.Context, floorID int64) ([]model.Room, error) {
	var out []model.Room
	err := c.call(ctx, request{op: "rooms", method: http.MethodGet, path: idPath("/api/floors/%d/rooms", floorID)}, &out)
	return out, err
}

// RoomGroupsWithRooms returns the room groups of a floor with their rooms.
func (c *Client) RoomGroupsWithRooms(ctx context.Context, floorID int64) ([]model.RoomGroup, error) {
	var out []model.RoomGroup
	err := c.call(ctx, request{
		op:     "room groups with rooms",
		method: http.MethodGet,
		path:   idPath("/api/floors/%d/roomGroupsWithRooms", floorID),
	}, &out)
	return out, err
}

// AddRoomGroup creates a room group. color is a 24-bit RGB value.
func (c *Client) AddRoomGroup(ctx context.Context, floorID int64, name string, color int) (model.RoomGroupInfo, error) {
	var out model.RoomGroupInfo
	err := c.call(ctx, request{
		op:     "add room group",
		method: http.MethodPost,
		path:   idPath("/api/floors/%d/roomGroups", floorID),
		json:   model.RoomGroupInfo{Name: name, Color: color},
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &out)
	return out, err
}

// UpdateRoomGroup renames or recolors a room group.
func (c *Client) UpdateRoomGroup(ctx context.Context, id int64, info model.RoomGroupInfo) (model.RoomGroupInfo, error) {
	var out model.RoomGroupInfo
	err := c.call(ctx, request{
		op:     "update room group",
		method: http.MethodPut,
		path:   idPath("/api/roomGroups/%d", id),
		json:   info,
	}, &out)
	return out, err
}

// DeleteRoomGroup removes a room group.
func (c *Client) DeleteRoomGroup(ctx context.Context, id int64) error {
	return c.call(ctx, request{op: "delete room group", method: http.MethodDelete, path: idPath("/api/roomGroups/%d", id)}, nil)
}

// RoomsInGroup returns the rooms of one room group.
func (c *Client) RoomsInGroup(ctx context.Context, groupID int64) ([]model.Room, error) {
	var out []model.Room
	err := c.call(ctx, request{op: "rooms in group", method: http.MethodGet, path: idPath("/api/roomGroups/%d/rooms", groupID)}, &out)
	return out, err
}

// Room returns one room.
func (c *Client) Room(ctx context.Context, id int64) (model.Room, error) {
	var out model.Room
	err := c.call(ctx, request{op: "room", method: http.MethodGet, path: idPath("/api/rooms/%d", id)}, &out)
	return out, err
}

// UpdateRoom applies a partial update to a room.
func (c *Client) UpdateRoom(ctx context.Context, id int64, update model.RoomUpdate) (model.Room, error) {
	var out model.Room
	err := c.call(ctx, request{
		op:     "update room",
		method: http.MethodPut,
		path:   idPath("/api/rooms/%d", id),
		json:   update,
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &out)
	return out, err
}

// AddRoom creates a room inside a room group.
func (c *Client) AddRoom(ctx context.Context, groupID int64, room model.RoomCreation) (model.Room, error) {
	var out model.Room
	err := c.call(ctx, request{
		op:     "add room",
		method: http.MethodPost,
		path:   idPath("/api/roomGroups/%d/rooms", groupID),
		json:   room,
		ok:     []int{http.StatusOK, http.StatusCreated},
	}, &out)
	return out, err
}

// RemoveRoom deletes a room.
func (c *Client) RemoveRoom(ctx context.Context, id int64) error {
	return c.call(ctx, request{op: "remove room", method: http.MethodDelete, path: idPath("/api/rooms/%d", id)}, nil)
}

// Doors returns the identifiers of all known doors.
func (c *Client) Doors(ctx context.Context) ([]string, error) {
	var out []string
	err := c.call(ctx, request{op: "doors", method: http.MethodGet, path: "/api/doors"}, &out)
	return out, err
}

// CanEnterRoom asks whether holding credentialIDs grants access to a room.
func (c *Client) CanEnterRoom(ctx context.Context, roomID int64, credentialIDs []int64) (bool, error) {
	return c.verdict(ctx, request{
		op:     "check room access",
		method: http.MethodPost,
		path:   idPath("/api/rooms/%d/checkValid", roomID),
		form:   url.Values{"credentials": {joinIDs(credentialIDs)}},
	}, "success")
}

// Image downloads a stored building or floor image and returns its content type.
func (c *Client) Image(ctx context.Context, id int64) ([]byte, string, error) {
	resp, err := c.send(ctx, request{op: "image", method: http.MethodGet, path: idPath("/api/images/%d", id)})
	if err != nil {
		return nil, "", err
	}
	return resp.body, strings.TrimSpace(resp.header.Get("Content-Type")), nil
}
