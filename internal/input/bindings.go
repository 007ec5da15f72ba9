package input

// Bind is a logical game action a gamepad button chord can trigger.
type Bind int

const (
	BindForward Bind = iota
	BindBack
	BindLeft
	BindRight
	BindJump
	BindSetSpawn
	BindChat
	BindInventory
	BindSendChat
	BindPlaceBlock
	BindDeleteBlock
	BindSpeed
	BindFly
	BindNoclip
	BindFlyUp
	BindFlyDown
	BindHotbarLeft
	BindHotbarRight
	BindCount
)

var bindNames = [BindCount]string{
	"Forward", "Back", "Left", "Right", "Jump", "SetSpawn", "Chat", "Inventory",
	"SendChat", "PlaceBlock", "DeleteBlock", "Speed", "Fly", "Noclip",
	"FlyUp", "FlyDown", "HotbarLeft", "HotbarRight",
}

func (b Bind) String() string {
	if b < 0 || b >= BindCount {
		return "Bind(?)"
	}
	return bindNames[b]
}

// BindMapping triggers when Button1 is held together with Button2, or
// Button1 alone when Button2 is None.
type BindMapping struct {
	Button1 Code
	Button2 Code
}

type BindingTable [BindCount]BindMapping

// PS4Bindings is the layout for DualShock style controllers, which have no
// select button.
var PS4Bindings = BindingTable{
	BindForward:     {PadUp, None},
	BindBack:        {PadDown, None},
	BindLeft:        {PadLeft, None},
	BindRight:       {PadRight, None},
	BindJump:        {PadA, None},
	BindSetSpawn:    {PadStart, None},
	BindChat:        {PadY, None},
	BindInventory:   {PadX, None},
	BindSendChat:    {PadStart, None},
	BindPlaceBlock:  {PadL, None},
	BindDeleteBlock: {PadR, None},
	BindSpeed:       {PadB, PadL},
	BindFly:         {PadB, PadR},
	BindNoclip:      {PadB, PadX},
	BindFlyUp:       {PadB, PadUp},
	BindFlyDown:     {PadB, PadDown},
	BindHotbarLeft:  {PadZL, None},
	BindHotbarRight: {PadZR, None},
}

// StandardBindings serves pads reporting the common Linux/W3C layout.
var StandardBindings = func() BindingTable {
	t := PS4Bindings
	t[BindSetSpawn] = BindMapping{PadSelect, None}
	return t
}()
