package dashboard

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventplanner/internal/adapters/apiclient"
	"eventplanner/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04"
	payloadLayout  = "2006-01-02T15:04:05"
	defaultStartAt = 8
	defaultEndAt   = 17
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// registerForm is the sign-up form. Password fields are never echoed back.
type registerForm struct {
	Username string
	Email    string
	password string
	confirm  string
}

func readRegisterForm(r *http.Request) registerForm {
	return registerForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		password: r.PostFormValue("password"),
		confirm:  r.PostFormValue("confirm_password"),
	}
}

func (f registerForm) validate() []string {
	if f.Username == "" || f.Email == "" || f.password == "" || f.confirm == "" {
		return []string{"Please fill in all fields"}
	}
	if !validEmail(f.Email) {
		return []string{"Please enter a valid email address"}
	}
	if f.password != f.confirm {
		return []string{"Passwords do not match"}
	}
	return nil
}

type loginForm struct {
	Email    string
	password string
}

func readLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		password: r.PostFormValue("password"),
	}
}

func (f loginForm) validate() []string {
	if f.Email == "" || f.password == "" {
		return []string{"Please fill in all fields"}
	}
	return nil
}

// eventForm mirrors the create/edit form. Child lists are newline-separated text areas;
// parallel areas (vendor names and services, for example) are paired line by line.
type eventForm struct {
	Title                string
	Description          string
	Location             string
	StartDate            string
	StartTime            string
	EndDate              string
	EndTime              string
	Attendees            string
	VendorNames          string
	VendorServices       string
	VendorAmounts        string
	SponsorNames         string
	SponsorLevels        string
	SponsorContributions string
	ItemNames            string
	ItemQuantities       string
}

func readEventForm(r *http.Request) eventForm {
	v := r.PostFormValue
	return eventForm{
		Title:                strings.TrimSpace(v("title")),
		Description:          v("description"),
		Location:             strings.TrimSpace(v("location")),
		StartDate:            v("start_date"),
		StartTime:            v("start_time"),
		EndDate:              v("end_date"),
		EndTime:              v("end_time"),
		Attendees:            v("attendees"),
		VendorNames:          v("vendor_names"),
		VendorServices:       v("vendor_services"),
		VendorAmounts:        v("vendor_amounts"),
		SponsorNames:         v("sponsor_names"),
		SponsorLevels:        v("sponsor_levels"),
		SponsorContributions: v("sponsor_contributions"),
		ItemNames:            v("item_names"),
		ItemQuantities:       v("item_quantities"),
	}
}

// newEventForm is an empty form for today, 08:00 to 17:00.
func newEventForm(now time.Time) eventForm {
	day := now.Format(dateLayout)
	return eventForm{
		StartDate: day,
		StartTime: fmt.Sprintf("%02d:00", defaultStartAt),
		EndDate:   day,
		EndTime:   fmt.Sprintf("%02d:00", defaultEndAt),
	}
}

// eventFormFrom prefills the edit form from a stored event. Times are shown in UTC,
// the zone payload sends them back in.
func eventFormFrom(e domain.Event) eventForm {
	start, end := e.StartTime.UTC(), e.EndTime.UTC()
	f := eventForm{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartDate:   start.Format(dateLayout),
		StartTime:   start.Format(clockLayout),
		EndDate:     end.Format(dateLayout),
		EndTime:     end.Format(clockLayout),
		Attendees:   strings.Join(e.Attendees, "\n"),
	}
	var names, services, costs, sNames, levels, amounts, items, qty []string
	for _, v := range e.Vendors {
		names = append(names, v.Name)
		services = append(services, v.Service)
		costs = append(costs, strconv.FormatFloat(v.AmountToBePaid, 'f', -1, 64))
	}
	for _, s := range e.Sponsors {
		sNames = append(sNames, s.Name)
		levels = append(levels, s.Level)
		amounts = append(amounts, strconv.FormatFloat(s.Contribution, 'f', -1, 64))
	}
	for _, it := range e.Items {
		items = append(items, it.ItemName)
		qty = append(qty, strconv.Itoa(it.Quantity))
	}
	f.VendorNames = strings.Join(names, "\n")
	f.VendorServices = strings.Join(services, "\n")
	f.VendorAmounts = strings.Join(costs, "\n")
	f.SponsorNames = strings.Join(sNames, "\n")
	f.SponsorLevels = strings.Join(levels, "\n")
	f.SponsorContributions = strings.Join(amounts, "\n")
	f.ItemNames = strings.Join(items, "\n")
	f.ItemQuantities = strings.Join(qty, "\n")
	return f
}

// payload checks the form and builds the API body. The first failing check wins.
func (f eventForm) payload(userID int64) (apiclient.EventPayload, []string) {
	attendees := nonBlankLines(f.Attendees)
	if f.Title == "" || f.Location == "" || f.StartDate == "" || f.EndDate == "" || len(attendees) == 0 {
		return apiclient.EventPayload{}, []string{"Please fill in all required fields"}
	}
	start, err := combineDateTime(f.StartDate, f.StartTime)
	if err != nil {
		return apiclient.EventPayload{}, []string{"Invalid start date or time"}
	}
	end, err := combineDateTime(f.EndDate, f.EndTime)
	if err != nil {
		return apiclient.EventPayload{}, []string{"Invalid end date or time"}
	}
	if !start.Before(end) {
		return apiclient.EventPayload{}, []string{"End time must be after start time"}
	}

	sponsors := make([]domain.Sponsor, 0)
	names, levels, amounts := nonBlankLines(f.SponsorNames), nonBlankLines(f.SponsorLevels), nonBlankLines(f.SponsorContributions)
	for i := 0; i < min(len(names), len(levels), len(amounts)); i++ {
		amount, err := parseContribution(amounts[i])
		if err != nil {
			return apiclient.EventPayload{}, []string{"Invalid contribution amount for sponsor " + names[i]}
		}
		sponsors = append(sponsors, domain.Sponsor{Name: names[i], Level: levels[i], Contribution: amount})
	}

	items := make([]domain.Item, 0)
	itemNames, quantities := nonBlankLines(f.ItemNames), nonBlankLines(f.ItemQuantities)
	for i := 0; i < min(len(itemNames), len(quantities)); i++ {
		qty, err := strconv.Atoi(quantities[i])
		if err != nil {
			return apiclient.EventPayload{}, []string{"Invalid quantity for item: " + itemNames[i]}
		}
		items = append(items, domain.Item{ItemName: itemNames[i], Quantity: qty})
	}

	// vendor rows pair by position and drop pairs with a blank side; a missing amount is 0
	vendors := make([]domain.Vendor, 0)
	vNames, vServices := strings.Split(f.VendorNames, "\n"), strings.Split(f.VendorServices, "\n")
	vAmounts := strings.Split(f.VendorAmounts, "\n")
	for i := 0; i < min(len(vNames), len(vServices)); i++ {
		n, s := strings.TrimSpace(vNames[i]), strings.TrimSpace(vServices[i])
		if n == "" || s == "" {
			continue
		}
		var amount float64
		if i < len(vAmounts) && strings.TrimSpace(vAmounts[i]) != "" {
			a, err := parseContribution(vAmounts[i])
			if err != nil {
				return apiclient.EventPayload{}, []string{"Invalid amount for vendor " + n}
			}
			amount = a
		}
		vendors = append(vendors, domain.Vendor{Name: n, Service: s, AmountToBePaid: amount})
	}

	return apiclient.EventPayload{
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		StartTime:   start.Format(payloadLayout),
		EndTime:     end.Format(payloadLayout),
		UserID:      userID,
		Attendees:   attendees,
		Vendors:     vendors,
		Sponsors:    sponsors,
		Items:       items,
	}, nil
}

// combineDateTime joins an HTML date and time input. A missing time means midnight.
func combineDateTime(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	if t, err := time.Parse(dateLayout+"T"+clockLayout, date+"T"+clock); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout+"T"+clockLayout+":05", date+"T"+clock)
}

// parseContribution accepts amounts like "$1,250.50".
func parseContribution(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}

func nonBlankLines(s string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
