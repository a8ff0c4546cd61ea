package category

// categoryRule maps a category name to the keyword list that selects it.
// Rules are scanned in order; the first category with any keyword contained
// in the counterparty or the body wins.
type categoryRule struct {
	name     string
	keywords []string
}

var expenseRules = []categoryRule{
	{name: "Food & Dining", keywords: []string{
		"swiggy", "zomato", "restaurant", "cafe", "coffee", "pizza", "burger",
		"dominos", "mcdonald", "kfc", "food", "dining", "eatery", "biryani",
	}},
	{name: "Groceries", keywords: []string{
		"bigbasket", "blinkit", "zepto", "grofers", "dmart", "grocery",
		"supermarket", "kirana", "vegetables", "instamart",
	}},
	{name: "Transport", keywords: []string{
		"uber", "ola", "rapido", "metro", "irctc", "redbus", "bus", "train",
		"cab", "taxi", "auto", "parking", "toll", "fastag",
	}},
	{name: "Fuel", keywords: []string{
		"petrol", "diesel", "fuel", "hpcl", "bpcl", "iocl", "indian oil",
		"bharat petroleum", "shell",
	}},
	{name: "Shopping", keywords: []string{
		"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho", "mall",
		"store", "shopping", "retail", "lifestyle", "decathlon",
	}},
	{name: "Bills & Utilities", keywords: []string{
		"electricity", "water bill", "gas", "broadband", "airtel", "jio",
		"vodafone", "bsnl", "recharge", "dth", "postpaid", "bill payment",
		"utility", "tata power",
	}},
	{name: "Entertainment", keywords: []string{
		"netflix", "spotify", "hotstar", "prime video", "bookmyshow", "pvr",
		"inox", "cinema", "movie", "game", "subscription",
	}},
	{name: "Health", keywords: []string{
		"pharmacy", "apollo", "medplus", "hospital", "clinic", "doctor",
		"medical", "medicine", "lab", "diagnostic", "pharmeasy", "1mg",
	}},
	{name: "Travel", keywords: []string{
		"makemytrip", "goibibo", "cleartrip", "oyo", "hotel", "flight",
		"airline", "indigo", "air india", "vistara", "booking.com", "airbnb",
	}},
	{name: "Education", keywords: []string{
		"school", "college", "university", "course", "tuition", "udemy",
		"coursera", "byjus", "fees",
	}},
	{name: "Rent", keywords: []string{
		"rent", "landlord", "nobroker", "housing society", "maintenance",
	}},
	{name: "EMI & Loans", keywords: []string{
		"emi", "loan", "bajaj finserv", "instalment", "installment",
	}},
	{name: "Insurance", keywords: []string{
		"insurance", "lic", "premium", "policybazaar",
	}},
	{name: "Investments", keywords: []string{
		"zerodha", "groww", "upstox", "mutual fund", "sip", "nps", "ppf",
	}},
}

var incomeRules = []categoryRule{
	{name: "Salary", keywords: []string{
		"salary", "sal credited", "payroll", "wages", "stipend",
	}},
}

// Fallback category names when no rule matches.
const (
	fallbackExpense = "Other"
	fallbackIncome  = "Other Income"
)
