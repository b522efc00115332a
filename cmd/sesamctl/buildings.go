package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gpse/sesam-client/internal/api"
	"github.com/gpse/sesam-client/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func parseIDs(what string, raw []string) ([]int64, error) {
	var ids []int64
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(what, part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// exactArgs prints usage and fails unless there are exactly n positional args.
func exactArgs(cc *commandContext, usage string, args []string, n int) error {
	if len(args) != n {
		writef(cc.Err, "usage: sesamctl %s\n", usage)
		return errUsage
	}
	return nil
}

func openUpload(path string) (api.Upload, func() error, error) {
	if path == "" {
		return api.Upload{}, nil, errors.New("--image is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return api.Upload{}, nil, fmt.Errorf("open image: %w", err)
	}
	return api.Upload{Filename: filepath.Base(path), Content: f}, f.Close, nil
}

func runBuildings(cc *commandContext, args []string) error {
	return dispatch(cc, "buildings", map[string]subcommand{
		"list":   {description: "List buildings", run: runBuildingsList},
		"show":   {description: "Show a building and its floors", run: runBuildingsShow},
		"add":    {description: "Add a building with a preview image", run: runBuildingsAdd},
		"delete": {description: "Delete a building", run: runBuildingsDelete},
		"image":  {description: "Download a stored building or floor image", run: runBuildingsImage},
	}, args)
}

func runBuildingsList(cc *commandContext, _ []string) error {
	if err := cc.enter("PlanList", nil); err != nil {
		return err
	}
	buildings, err := cc.Runtime.API.Buildings(cc.Ctx)
	if err != nil {
		return err
	}
	return cc.printer.print(buildings, func(w io.Writer) {
		writef(w, "ID\tNAME\tFLOORS\n")
		for _, b := range buildings {
			writef(w, "%d\t%s\t%d\n", b.ID, b.Name, len(b.Floors))
		}
	})
}

func runBuildingsShow(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "buildings show BUILDING_ID", args, 1); err != nil {
		return err
	}
	id, err := parseID("building", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("FloorSelection", map[string]string{"buildingId": args[0]}); err != nil {
		return err
	}

	var (
		building model.Building
		floors   []model.Floor
	)
	g, ctx := errgroup.WithContext(cc.Ctx)
	g.Go(func() error {
		var err error
		building, err = cc.Runtime.API.Building(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		floors, err = cc.Runtime.API.BuildingFloors(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	building.Floors = floors

	return cc.printer.print(building, func(w io.Writer) {
		writef(w, "BUILDING\t%d\t%s\n", building.ID, building.Name)
		writef(w, "FLOOR ID\tNAME\tROOM GROUPS\n")
		for _, f := range floors {
			writef(w, "%d\t%s\t%d\n", f.ID, f.Name, len(f.RoomGroups))
		}
	})
}

func runBuildingsAdd(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("buildings add")
	name := fs.String("name", "", "building name")
	image := fs.String("image", "", "path to the preview image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cc.enter("admin", nil); err != nil {
		return err
	}

	upload, closeFn, err := openUpload(*image)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	building, err := cc.Runtime.API.AddBuilding(cc.Ctx, *name, upload)
	if err != nil {
		return err
	}
	return cc.printer.print(building, func(w io.Writer) {
		writef(w, "created building %d (%s)\n", building.ID, building.Name)
	})
}

func runBuildingsDelete(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "buildings delete BUILDING_ID", args, 1); err != nil {
		return err
	}
	id, err := parseID("building", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("admin", nil); err != nil {
		return err
	}
	if err := cc.Runtime.API.DeleteBuilding(cc.Ctx, id); err != nil {
		return err
	}
	writef(cc.Out, "deleted building %d\n", id)
	return nil
}

func runFloors(cc *commandContext, args []string) error {
	return dispatch(cc, "floors", map[string]subcommand{
		"show":   {description: "Show a floor with its room groups and rooms", run: runFloorsShow},
		"rooms":  {description: "List the rooms of a floor", run: runFloorsRooms},
		"groups": {description: "List the room groups of a floor", run: runFloorsGroups},
		"add":    {description: "Add a floor to a building", run: runFloorsAdd},
		"rename": {description: "Rename a floor, optionally replacing its image", run: runFloorsRename},
		"delete": {description: "Delete a floor", run: runFloorsDelete},
	}, args)
}

type floorView struct {
	model.Floor
	Groups []model.RoomGroup `json:"groups"`
}

func runFloorsShow(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "floors show BUILDING_ID FLOOR_ID", args, 2); err != nil {
		return err
	}
	floorID, err := parseID("floor", args[1])
	if err != nil {
		return err
	}
	if err := cc.enter("FloorplanVisual", map[string]string{"buildingId": args[0], "floorId": args[1]}); err != nil {
		return err
	}

	var view floorView
	g, ctx := errgroup.WithContext(cc.Ctx)
	g.Go(func() error {
		var err error
		view.Floor, err = cc.Runtime.API.Floor(ctx, floorID)
		return err
	})
	g.Go(func() error {
		var err error
		view.Groups, err = cc.Runtime.API.RoomGroupsWithRooms(ctx, floorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return cc.printer.print(view, func(w io.Writer) {
		writef(w, "FLOOR\t%d\t%s\n", view.ID, view.Name)
		writef(w, "GROUP\tCOLOR\tROOM ID\tROOM\n")
		for _, grp := range view.Groups {
			color := model.HexColorFromInt(grp.Color)
			if len(grp.Rooms) == 0 {
				writef(w, "%s\t%s\t-\t-\n", grp.Name, color)
			}
			for _, r := range grp.Rooms {
				writef(w, "%s\t%s\t%d\t%s\n", grp.Name, color, r.ID, r.Name)
			}
		}
	})
}

func runFloorsRooms(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "floors rooms FLOOR_ID", args, 1); err != nil {
		return err
	}
	floorID, err := parseID("floor", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("PlanList", nil); err != nil {
		return err
	}
	rooms, err := cc.Runtime.API.Rooms(cc.Ctx, floorID)
	if err != nil {
		return err
	}
	return printRooms(cc, rooms)
}

func printRooms(cc *commandContext, rooms []model.Room) error {
	return cc.printer.print(rooms, func(w io.Writer) {
		writef(w, "ID\tNAME\tDOORS\tDESCRIPTION\n")
		for _, r := range rooms {
			writef(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, strings.Join(r.Doors, ","), r.Description)
		}
	})
}

func runFloorsGroups(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "floors groups FLOOR_ID", args, 1); err != nil {
		return err
	}
	floorID, err := parseID("floor", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("PlanList", nil); err != nil {
		return err
	}
	groups, err := cc.Runtime.API.RoomGroups(cc.Ctx, floorID)
	if err != nil {
		return err
	}
	return cc.printer.print(groups, func(w io.Writer) {
		writef(w, "ID\tNAME\tCOLOR\n")
		for _, g := range groups {
			writef(w, "%d\t%s\t%s\n", g.ID, g.Name, model.HexColorFromInt(g.Color))
		}
	})
}

func runFloorsAdd(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("floors add")
	buildingRaw := fs.String("building", "", "building id")
	name := fs.String("name", "", "floor name")
	image := fs.String("image", "", "path to the floor-plan image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	buildingID, err := parseID("building", *buildingRaw)
	if err != nil {
		return err
	}
	if err := cc.enter("admin", nil); err != nil {
		return err
	}

	upload, closeFn, err := openUpload(*image)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	floor, err := cc.Runtime.API.AddFloor(cc.Ctx, buildingID, *name, upload)
	if err != nil {
		return err
	}
	return cc.printer.print(floor, func(w io.Writer) {
		writef(w, "created floor %d (%s)\n", floor.ID, floor.Name)
	})
}

func runFloorsRename(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("floors rename")
	name := fs.String("name", "", "new floor name")
	image := fs.String("image", "", "optional replacement floor-plan image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "floors rename FLOOR_ID --name NAME [--image PATH]", fs.Args(), 1); err != nil {
		return err
	}
	floorID, err := parseID("floor", fs.Arg(0))
	if err != nil {
		return err
	}
	if err := cc.enter("admin", nil); err != nil {
		return err
	}

	switch {
	case *image == "":
		err = cc.Runtime.API.UpdateFloorName(cc.Ctx, floorID, *name)
	case *name == "":
		err = withUpload(*image, func(u api.Upload) error {
			return cc.Runtime.API.UpdateFloorImage(cc.Ctx, floorID, u)
		})
	default:
		err = withUpload(*image, func(u api.Upload) error {
			return cc.Runtime.API.UpdateFloorNameImage(cc.Ctx, floorID, *name, u)
		})
	}
	if err != nil {
		return err
	}
	writef(cc.Out, "updated floor %d\n", floorID)
	return nil
}

func withUpload(path string, fn func(api.Upload) error) error {
	upload, closeFn, err := openUpload(path)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	return fn(upload)
}

func runFloorsDelete(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "floors delete FLOOR_ID", args, 1); err != nil {
		return err
	}
	id, err := parseID("floor", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("admin", nil); err != nil {
		return err
	}
	if err := cc.Runtime.API.DeleteFloor(cc.Ctx, id); err != nil {
		return err
	}
	writef(cc.Out, "deleted floor %d\n", id)
	return nil
}

func runRooms(cc *commandContext, args []string) error {
	return dispatch(cc, "rooms", map[string]subcommand{
		"show":         {description: "Show a room and its credential requirements", run: runRoomsShow},
		"check-access": {description: "Check whether credentials open a room", run: runRoomsCheckAccess},
		"group":        {description: "List the rooms of a room group", run: runRoomsGroup},
	}, args)
}

func runRoomsShow(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "rooms show ROOM_ID", args, 1); err != nil {
		return err
	}
	id, err := parseID("room", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("credentialView", map[string]string{"roomId": args[0]}); err != nil {
		return err
	}
	room, err := cc.Runtime.API.Room(cc.Ctx, id)
	if err != nil {
		return err
	}
	return cc.printer.print(room, func(w io.Writer) {
		writef(w, "ROOM\t%d\t%s\n", room.ID, room.Name)
		writef(w, "DESCRIPTION\t%s\n", room.Description)
		writef(w, "DOORS\t%s\n", strings.Join(room.Doors, ","))
		writef(w, "REQUIREMENTS\t%d alternative(s)\n", len(room.RequiredCredentials))
	})
}

type accessView struct {
	RoomID      int64   `json:"roomId"`
	Credentials []int64 `json:"credentials"`
	Granted     bool    `json:"granted"`
}

func runRoomsCheckAccess(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("rooms check-access")
	creds := fs.StringSlice("credential", nil, "credential ids presented (repeatable or comma separated)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "rooms check-access ROOM_ID --credential ID[,ID...]", fs.Args(), 1); err != nil {
		return err
	}
	roomID, err := parseID("room", fs.Arg(0))
	if err != nil {
		return err
	}
	ids, err := parseIDs("credential", *creds)
	if err != nil {
		return err
	}
	if err := cc.enter("credentialView", map[string]string{"roomId": fs.Arg(0)}); err != nil {
		return err
	}

	granted, err := cc.Runtime.API.CanEnterRoom(cc.Ctx, roomID, ids)
	if err != nil {
		return err
	}
	view := accessView{RoomID: roomID, Credentials: ids, Granted: granted}
	return cc.printer.print(view, func(w io.Writer) {
		writef(w, "ROOM\tGRANTED\n%d\t%s\n", roomID, yesNo(granted))
	})
}

func runRoomsGroup(cc *commandContext, args []string) error {
	if err := exactArgs(cc, "rooms group GROUP_ID", args, 1); err != nil {
		return err
	}
	id, err := parseID("room group", args[0])
	if err != nil {
		return err
	}
	if err := cc.enter("PlanList", nil); err != nil {
		return err
	}
	rooms, err := cc.Runtime.API.RoomsInGroup(cc.Ctx, id)
	if err != nil {
		return err
	}
	return printRooms(cc, rooms)
}

func runDoors(cc *commandContext, _ []string) error {
	if err := cc.enter("PlanList", nil); err != nil {
		return err
	}
	doors, err := cc.Runtime.API.Doors(cc.Ctx)
	if err != nil {
		return err
	}
	return cc.printer.print(doors, func(w io.Writer) {
		writef(w, "DOOR\n")
		for _, d := range doors {
			writef(w, "%s\n", d)
		}
	})
}

func runBuildingsImage(cc *commandContext, args []string) error {
	fs := cc.newFlagSet("buildings image")
	out := fs.String("out", "", "write the image to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := exactArgs(cc, "buildings image IMAGE_ID [--out FILE]", fs.Args(), 1); err != nil {
		return err
	}
	id, err := parseID("image", fs.Arg(0))
	if err != nil {
		return err
	}
	if err := cc.enter("PlanList", nil); err != nil {
		return err
	}

	data, contentType, err := cc.Runtime.API.Image(cc.Ctx, id)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = cc.Out.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	writef(cc.Err, "saved %d bytes (%s) to %s\n", len(data), contentType, *out)
	return nil
}
