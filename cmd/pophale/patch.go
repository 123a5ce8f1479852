package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Read or write settings inside the class file",
	Long: `Read or write the single-byte settings the game keeps in its class
file. Offsets come from the patch profile of the configured build.

Examples:
  pophale patch get
  pophale patch get menu
  pophale patch set menu 2`,
}

var patchGetCmd = &cobra.Command{
	Use:   "get [setting]",
	Short: "Show one or all settings",
	Args:  cobra.MaximumNArgs(1),
	Run:   runPatchGet,
}

var patchSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Write a setting",
	Args:  cobra.ExactArgs(2),
	Run:   runPatchSet,
}

func init() {
	patchCmd.AddCommand(patchGetCmd)
	patchCmd.AddCommand(patchSetCmd)
}

func runPatchGet(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	profile := s.ws.PatchProfile()
	if len(args) == 1 {
		setting, err := profile.Setting(args[0])
		if err != nil {
			s.fail("%v", err)
		}
		v, err := s.ws.ReadPatch(setting.Name)
		if err != nil {
			s.fail("%v", err)
		}
		fmt.Printf("%s = %d (%s)\n", setting.Name, v, setting.Label(v))
		return
	}

	values, err := s.ws.ReadAllPatches()
	if err != nil {
		s.fail("%v", err)
	}

	fmt.Printf("Patch settings - build %s\n", profile.Build)
	fmt.Println()

	// Calculate column widths
	maxNameLen := len("Name")
	for _, setting := range profile.Settings {
		maxNameLen = max(maxNameLen, len(setting.Name))
	}

	fmt.Printf("  %-*s  %-5s  %-7s  %s\n", maxNameLen, "Name", "Value", "Range", "Meaning")
	fmt.Printf("  %-*s  %-5s  %-7s  %s\n", maxNameLen, "----", "-----", "-----", "-------")
	for _, setting := range profile.Settings {
		v := values[setting.Name]
		fmt.Printf("  %-*s  %-5d  %-7s  %s\n", maxNameLen, setting.Name, v,
			fmt.Sprintf("%d..%d", setting.Min, setting.Max), setting.Label(v))
	}
}

func runPatchSet(_ *cobra.Command, args []string) {
	s := openSession()
	defer s.Close()

	setting, err := s.ws.PatchProfile().Setting(args[0])
	if err != nil {
		s.fail("%v", err)
	}
	v, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		s.fail("invalid value %q for %s", args[1], setting.Name)
	}
	if err := s.ws.WritePatch(setting.Name, uint8(v)); err != nil {
		s.fail("%v", err)
	}
	fmt.Printf("%s = %d (%s)\n", setting.Name, v, setting.Label(uint8(v)))
}
