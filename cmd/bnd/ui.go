package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bandlife/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type gamePayload struct {
	Game *game.Game `json:"game"`
}

type venuesPayload struct {
	Venues []game.Venue `json:"venues"`
}

type offersPayload struct {
	Offers []game.Instrument `json:"offers"`
}

type syncResultsPayload struct {
	Results []game.ReplayResult `json:"results"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt(label string, min, max int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min || v > max {
			printWarn(fmt.Sprintf("Value must be between %d and %d.", min, max))
			continue
		}
		return v, nil
	}
}

func renderGame(raw map[string]any) error {
	p, err := decodeInto[gamePayload](raw)
	if err != nil {
		return err
	}
	if p.Game == nil {
		printInfo("No active playthrough. Run `bnd start`.")
		return nil
	}
	g := p.Game

	accent.Printf("\n== %s ==\n", g.Main.Name)
	neutral.Printf("%s\n", g.Time.String())
	fmt.Printf("Money:  %s\n", colorizeMoney(g.Money))
	fmt.Printf("Mental: %s\n", colorizeMental(g.Mental))
	fmt.Printf("Fame:   %d\n", g.Fame)
	fmt.Printf("Team:   %d members, power %d\n", g.TeamSize, g.TeamPower)
	if g.AdventureDone {
		neutral.Println("Adventure: done for today")
	}

	fmt.Println()
	printMember("main", &g.Main)
	for i, m := range g.Mates {
		if m == nil {
			continue
		}
		printMember(fmt.Sprintf("mate%d", i+1), m)
	}
	return nil
}

func printMember(key string, m *game.Member) {
	line := fmt.Sprintf("  [%s] %s (%s) power %d", key, m.Name, m.Position, m.Power)
	if m.HasItem {
		line += fmt.Sprintf(" | %s +%d (%d%% durability)", m.ItemName, m.ItemPower, m.ItemDurability)
	}
	fmt.Println(line)
}

func renderAction(name string, raw map[string]any) error {
	switch name {
	case "work":
		var p struct {
			Work game.WorkSummary `json:"work"`
		}
		if err := reparse(raw, &p); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Shift done: +%d money, -%d mental.", p.Work.MoneyEarned, p.Work.MentalLost))
	case "rest":
		var p struct {
			Rest game.RestSummary `json:"rest"`
		}
		if err := reparse(raw, &p); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Rested: +%d mental.", p.Rest.MentalGained))
	case "practice":
		var p struct {
			Practice game.PracticeSummary `json:"practice"`
		}
		if err := reparse(raw, &p); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Practice (score %d): -%d mental, team power %d.", p.Practice.Score, p.Practice.MentalLost, p.Practice.TeamPower))
		for who, gain := range p.Practice.PowerGains {
			fmt.Printf("  %s +%d power\n", who, gain)
		}
		for _, item := range p.Practice.BrokenItems {
			danger.Printf("  %s broke!\n", item)
		}
	case "perform":
		var p struct {
			Performance game.PerformSummary `json:"performance"`
		}
		if err := reparse(raw, &p); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Show at %s: +%d money, +%d fame, -%d mental (x%.2f).",
			p.Performance.Venue, p.Performance.MoneyEarned, p.Performance.FameGained,
			p.Performance.MentalLost, p.Performance.Multiplier))
		for _, item := range p.Performance.BrokenItems {
			danger.Printf("  %s broke!\n", item)
		}
	case "repair":
		var p struct {
			Repair game.RepairSummary `json:"repair"`
		}
		if err := reparse(raw, &p); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Repaired %s's %s for %d money.", p.Repair.Member, p.Repair.Item, p.Repair.Cost))
	case "leave_shop":
		printInfo("Left the shop empty handed.")
	case "adventure":
		var p struct {
			Adventure game.AdventureSummary `json:"adventure"`
		}
		if err := reparse(raw, &p); err != nil {
			return err
		}
		renderAdventure(p.Adventure)
	}
	return renderGame(raw)
}

func renderAdventure(a game.AdventureSummary) {
	accent.Printf("\n== ADVENTURE: %s ==\n", a.Event)
	if a.Joined != nil {
		printSuccess(fmt.Sprintf("%s (%s) joined the band!", a.Joined.Name, a.Joined.Position))
	}
	if a.Departed != "" {
		danger.Printf("%s left the band.\n", a.Departed)
	}
	if a.BrokenItem != "" {
		danger.Printf("%s was destroyed.\n", a.BrokenItem)
	}
	if a.Improved != "" {
		printSuccess(a.Improved + "'s instrument got an upgrade.")
	}
	if a.MoneyDelta != 0 {
		fmt.Printf("Money %s\n", signed(a.MoneyDelta))
	}
	if a.MentalDelta != 0 {
		fmt.Printf("Mental %s\n", signed(a.MentalDelta))
	}
	if a.FameDelta != 0 {
		fmt.Printf("Fame %s\n", signed(a.FameDelta))
	}
}

func renderVenues(raw map[string]any) error {
	p, err := decodeInto[venuesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== VENUES ==")
	for _, v := range p.Venues {
		fmt.Printf("  %-14s %-22s fame %d+ | pay %d-%d | +%d fame\n",
			v.ID, v.Name, v.MinFame, v.BaseMoneyMin, v.BaseMoneyMax, v.BaseFame)
	}
	return nil
}

func renderOffers(raw map[string]any, member string) error {
	p, err := decodeInto[offersPayload](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== SHOP OFFERS (%s) ==\n", member)
	for _, o := range p.Offers {
		fmt.Printf("  %-28s power %-3d price %d\n", o.Name, o.Power, o.Price)
	}
	neutral.Println("Buy with `bnd shop buy`, or `bnd shop leave` to walk out.")
	return nil
}

func renderSyncResults(raw map[string]any) error {
	p, err := decodeInto[syncResultsPayload](raw)
	if err != nil {
		return err
	}
	applied, dupes, failed := 0, 0, 0
	for _, r := range p.Results {
		switch r.Status {
		case "applied":
			applied++
		case "duplicate":
			dupes++
		default:
			failed++
			danger.Printf("  %s failed: %s\n", r.Action, r.Error)
		}
	}
	printSuccess(fmt.Sprintf("Sync complete: applied=%d duplicate=%d failed=%d", applied, dupes, failed))
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func reparse(raw map[string]any, out any) error {
	body, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func colorizeMoney(v int) string {
	if v < 50 {
		return danger.Sprintf("%d", v)
	}
	return success.Sprintf("%d", v)
}

func colorizeMental(v int) string {
	switch {
	case v < game.StrenuousMental:
		return danger.Sprintf("%d/100", v)
	case v < 60:
		return warn.Sprintf("%d/100", v)
	default:
		return success.Sprintf("%d/100", v)
	}
}

func signed(v int) string {
	if v > 0 {
		return success.Sprintf("+%d", v)
	}
	return danger.Sprintf("%d", v)
}
