package deck

import "math/big"

// initX1Strings are the 52 canonical x1 coordinates every fresh deck starts
// from, indexed by card position. Decks smaller than 52 cards take a prefix.
var initX1Strings = [52]string{
	"5299619240641551281634865583518297030282874472190772894086521144482721001553",
	"10031262171927540148667355526369034398030886437092045105752248699557385197826",
	"2763488322167937039616325905516046217694264098671987087929565332380420898366",
	"12252886604826192316928789929706397349846234911198931249025449955069330867144",
	"11480966271046430430613841218147196773252373073876138147006741179837832100836",
	"10483991165196995731760716870725509190315033255344071753161464961897900552628",
	"20092560661213339045022877747484245238324772779820628739268223482659246842641",
	"7582035475627193640797276505418002166691739036475590846121162698650004832581",
	"4705897243203718691035604313913899717760209962238015362153877735592901317263",
	"153240920024090527149238595127650983736082984617707450012091413752625486998",
	"21605515851820432880964235241069234202284600780825340516808373216881770219365",
	"13745444942333935831105476262872495530232646590228527111681360848540626474828",
	"2645068156583085050795409844793952496341966587935372213947442411891928926825",
	"6271573312546148160329629673815240458676221818610765478794395550121752710497",
	"5958787406588418500595239545974275039455545059833263445973445578199987122248",
	"20535751008137662458650892643857854177364093782887716696778361156345824450120",
	"13563836234767289570509776815239138700227815546336980653685219619269419222465",
	"4275129684793209100908617629232873490659349646726316579174764020734442970715",
	"3580683066894261344342868744595701371983032382764484483883828834921866692509",
	"18524760469487540272086982072248352918977679699605098074565248706868593560314",
	"2154427024935329939176171989152776024124432978019445096214692532430076957041",
	"1816241298058861911502288220962217652587610581887494755882131860274208736174",
	"3639172054127297921474498814936207970655189294143443965871382146718894049550",
	"18153584759852955321993060909315686508515263790058719796143606868729795593935",
	"5176949692172562547530994773011440485202239217591064534480919561343940681001",
	"11782448596564923920273443067279224661023825032511758933679941945201390953176",
	"15115414180166661582657433168409397583403678199440414913931998371087153331677",
	"16103312053732777198770385592612569441925896554538398460782269366791789650450",
	"15634573854256261552526691928934487981718036067957117047207941471691510256035",
	"13522014300368527857124448028007017231620180728959917395934408529470498717410",
	"8849597151384761754662432349647792181832839105149516511288109154560963346222",
	"17637772869292411350162712206160621391799277598172371975548617963057997942415",
	"17865442088336706777255824955874511043418354156735081989302076911109600783679",
	"9625567289404330771610619170659567384620399410607101202415837683782273761636",
	"19373814649267709158886884269995697909895888146244662021464982318704042596931",
	"7390138716282455928406931122298680964008854655730225979945397780138931089133",
	"15569307001644077118414951158570484655582938985123060674676216828593082531204",
	"5574029269435346901610253460831153754705524733306961972891617297155450271275",
	"19413618616187267723274700502268217266196958882113475472385469940329254284367",
	"4150841881477820062321117353525461148695942145446006780376429869296310489891",
	"13006218950937475527552755960714370451146844872354184015492231133933291271706",
	"2756817265436308373152970980469407708639447434621224209076647801443201833641",
	"20753332016692298037070725519498706856018536650957009186217190802393636394798",
	"18677353525295848510782679969108302659301585542508993181681541803916576179951",
	"14183023947711168902945925525637889799656706942453336661550553836881551350544",
	"9918129980499720075312297335985446199040718987227835782934042132813716932162",
	"13387158171306569181335774436711419178064369889548869994718755907103728849628",
	"6746289764529063117757275978151137209280572017166985325039920625187571527186",
	"17386594504742987867709199123940407114622143705013582123660965311449576087929",
	"11393356614877405198783044711998043631351342484007264997044462092350229714918",
	"16257260290674454725761605597495173678803471245971702030005143987297548407836",
	"3673082978401597800140653084819666873666278094336864183112751111018951461681",
}

// initX1 is the parsed form of initX1Strings, built once at package init.
var initX1 [52]*big.Int

func init() {
	for i, s := range initX1Strings {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			panic("deck: malformed INIT_X1 literal at index " + string(rune('0'+i)))
		}
		initX1[i] = v
	}
}

// InitialX1 returns the canonical starting x1 values for a deck of n cards
// (a prefix of the 52-entry table).
func InitialX1(n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		out[i] = new(big.Int).Set(initX1[i])
	}
	return out
}

// CardIndexFromX1 returns the canonical card index whose INIT_X1 entry
// equals x1, restricted to the first n table entries. ok is false if no
// entry matches.
func CardIndexFromX1(x1 *big.Int, n int) (index int, ok bool) {
	for i := 0; i < n && i < len(initX1); i++ {
		if initX1[i].Cmp(x1) == 0 {
			return i, true
		}
	}
	return 0, false
}
